package peek

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/internal/streamtest"
	"github.com/calcoloergosum/vocagen/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	content := streamtest.Default()
	server := streamtest.NewServer(content)
	defer server.Close()

	client, err := stream.New(server.Base(), stream.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}

	one := streamtest.Next(content.Start)
	two := streamtest.Next(one)

	Convey("Given a sentence stream", t, func() {
		var out bytes.Buffer
		options := &Options{
			Out:     &out,
			Source:  client,
			Request: stream.Request{Pair: content.Pair, Mode: stream.ModeSentence, Order: stream.OrderRandom},
			Count:   2,
		}

		Convey("Text output lists each state followed by its sentences", func() {
			So(Run(context.Background(), options), ShouldBeNil)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 6)
			So(lines[0], ShouldContainSubstring, streamtest.Hex(one))
			So(lines[2], ShouldEqual, "  "+content.Sentence(one).Sentence2)
			So(lines[3], ShouldContainSubstring, streamtest.Hex(two))
		})

		Convey("JSON output carries the state to continue from", func() {
			options.Json = true
			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Pair, ShouldResemble, content.Pair)
			So(output.Direction, ShouldEqual, cursor.Forward.String())
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[1].State, ShouldEqual, streamtest.Hex(two))
			So(output.Result[0].Items[0].Sentence1, ShouldEqual, content.Sentence(one).Sentence1)
		})

		Convey("Backward steps retrace the forward ones", func() {
			options.Json = true
			options.Request.Token = cursor.NewToken(streamtest.Hex(two))
			options.Request.Direction = cursor.Backward
			options.Count = 1
			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result[0].State, ShouldEqual, streamtest.Hex(one))
		})

		Convey("Clips replace the sentences on request", func() {
			options.Clips = true
			options.Count = 1
			So(Run(context.Background(), options), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, server.URL+content.Sentence(one).AudioURLs[0])
		})

		Convey("A non-positive count is rejected", func() {
			options.Count = 0
			So(Run(context.Background(), options), ShouldEqual, ErrCount)
		})
	})

	Convey("Given a word stream", t, func() {
		var out bytes.Buffer
		options := &Options{
			Out:     &out,
			Source:  client,
			Request: stream.Request{Pair: content.Pair, Mode: stream.ModeWord},
			Count:   1,
			Json:    true,
		}

		Convey("Every sentence of the word is listed and no order is reported", func() {
			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Order, ShouldBeEmpty)
			So(output.Result[0].Word, ShouldEqual, "word-"+streamtest.Hex(one))
			So(output.Result[0].Items, ShouldHaveLength, content.WordSize)
		})
	})

	Convey("Given a failing server", t, func() {
		server.FailNext(1, 503)
		options := &Options{
			Out:     &bytes.Buffer{},
			Source:  client,
			Request: stream.Request{Pair: content.Pair},
			Count:   1,
		}

		Convey("The step that failed is named", func() {
			err := Run(context.Background(), options)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "step 1:")
		})
	})
}
