package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	"github.com/hajimehoshi/go-mp3"
)

// pcm is decoded, interleaved 16-bit audio.
type pcm struct {
	samples  []int16
	rate     int
	channels int
}

type decoder func(data []byte) (*pcm, error)

// decodeMP3 decodes a whole MP3 file. go-mp3 always produces 16-bit little-endian stereo.
func decodeMP3(data []byte) (*pcm, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	if len(raw) == 0 {
		return nil, errors.New("decode mp3: no audio frames")
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	return &pcm{samples: samples, rate: d.SampleRate(), channels: 2}, nil
}

// output is an audio device.
type output interface {
	Open(rate, channels int) (sink, error)
	Terminate() error
}

// sink is an open output stream. Write blocks until the samples are queued for playback.
type sink interface {
	Write(samples []int16) error
	Close() error
}

// portAudioOutput writes to the default PortAudio output device.
type portAudioOutput struct {
	initialized bool
}

func (p *portAudioOutput) Initialize() error {
	if p.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize PortAudio: %w", err)
	}

	p.initialized = true
	return nil
}

func (p *portAudioOutput) Terminate() error {
	if !p.initialized {
		return nil
	}

	p.initialized = false
	return portaudio.Terminate()
}

func (p *portAudioOutput) Open(rate, channels int) (sink, error) {
	if !p.initialized {
		return nil, errors.New("PortAudio not initialized")
	}

	buffer := make([]int16, framesPerBuffer*channels)

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(rate), framesPerBuffer, buffer)
	if err != nil {
		return nil, fmt.Errorf("open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start output stream: %w", err)
	}

	return &portAudioSink{stream: stream, buffer: buffer}, nil
}

type portAudioSink struct {
	stream *portaudio.Stream
	buffer []int16
}

func (s *portAudioSink) Write(samples []int16) error {
	n := copy(s.buffer, samples)
	clear(s.buffer[n:])
	return s.stream.Write()
}

func (s *portAudioSink) Close() error {
	if err := s.stream.Stop(); err != nil {
		_ = s.stream.Close()
		return err
	}
	return s.stream.Close()
}
