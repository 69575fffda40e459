package cmd

import (
	"time"

	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/history"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/network"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/spf13/viper"
)

// session is what a training command starts from.
type session struct {
	client *stream.Client
	feed   feed.Options

	// pick shows the saved streams before training
	pick bool
}

// newSession reads the trainer settings. With resume and a configured pair the saved token
// of that stream is used directly, otherwise resume asks for a saved stream.
func newSession(resume bool) (*session, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	opts, err := feedOptions()
	if err != nil {
		return nil, err
	}

	s := &session{client: client, feed: opts, pick: resume}
	if !resume || opts.Pair.IsZero() {
		return s, nil
	}

	token, err := history.Resume(opts.Pair, opts.Mode, opts.Order)
	if err != nil {
		return nil, err
	}

	if token.IsAbsent() {
		log.Infof("nothing saved for %s, starting a new stream", opts.Pair)
	}

	s.feed.Start = token.OrEmpty()
	s.pick = false
	return s, nil
}

func (s *session) close() {
	if err := network.SaveCookies(s.client.Base()); err != nil {
		log.Warnf("saving session cookie: %s", err)
	}
}

// newClient connects to server.url and restores the cookie of the previous session.
func newClient() (*stream.Client, error) {
	network.SetTimeout(time.Duration(viper.GetInt(key.ServerTimeout)) * time.Second)

	client, err := stream.New(viper.GetString(key.ServerURL))
	if err != nil {
		return nil, err
	}

	if err := network.LoadCookies(client.Base()); err != nil {
		log.Warnf("restoring session cookie: %s", err)
	}

	return client, nil
}

func feedOptions() (feed.Options, error) {
	var opts feed.Options

	if raw := viper.GetString(key.TrainerPair); raw != "" {
		pair, err := item.ParsePair(raw)
		if err != nil {
			return opts, err
		}
		opts.Pair = pair
	}

	mode, err := stream.ParseMode(viper.GetString(key.TrainerMode))
	if err != nil {
		return opts, err
	}

	order, err := stream.ParseOrder(viper.GetString(key.TrainerOrder))
	if err != nil {
		return opts, err
	}

	opts.Mode = mode
	opts.Order = order
	opts.Repeat = viper.GetInt(key.TrainerRepeat)
	opts.HideNative = viper.GetBool(key.TrainerHideNative)
	opts.Pause = milliseconds(key.TrainerPauseMs)
	opts.Gap = milliseconds(key.TrainerGapMs)

	return opts, nil
}

func milliseconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

func newPlayer() (player.Player, error) {
	return player.New(viper.GetString(key.Player))
}
