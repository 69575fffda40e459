package cmd

import (
	"testing"
	"time"

	"github.com/calcoloergosum/vocagen/config"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/stream"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestParseValue(t *testing.T) {
	Convey("Values are converted to the type of the field", t, func() {
		v, err := parseValue(config.Default[key.TrainerRepeat], []string{"5"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 5)

		v, err = parseValue(config.Default[key.TrainerHideNative], []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(config.Default[key.TrainerMode], []string{"word"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "word")
	})

	Convey("Bad values are rejected", t, func() {
		_, err := parseValue(config.Default[key.TrainerRepeat], []string{"many"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.TrainerRepeat], []string{"-1"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.TrainerMode], []string{"paragraph"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.TrainerMode], nil)
		So(err, ShouldNotBeNil)
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("An unknown key suggests the closest one", t, func() {
		err := errUnknownKey("trainer.repeet")
		So(err.Error(), ShouldContainSubstring, key.TrainerRepeat)
	})
}

func TestFeedOptions(t *testing.T) {
	Convey("Given trainer settings", t, func() {
		viper.Set(key.TrainerPair, "en-ko")
		viper.Set(key.TrainerMode, "word")
		viper.Set(key.TrainerOrder, "length")
		viper.Set(key.TrainerRepeat, 2)
		viper.Set(key.TrainerHideNative, true)
		viper.Set(key.TrainerPauseMs, 250)
		viper.Set(key.TrainerGapMs, 1500)
		defer viper.Reset()

		Convey("They become feed options", func() {
			opts, err := feedOptions()
			So(err, ShouldBeNil)
			So(opts.Pair, ShouldResemble, item.Pair{L1: "en", L2: "ko"})
			So(opts.Mode, ShouldEqual, stream.ModeWord)
			So(opts.Order, ShouldEqual, stream.OrderLength)
			So(opts.Repeat, ShouldEqual, 2)
			So(opts.HideNative, ShouldBeTrue)
			So(opts.Pause, ShouldEqual, 250*time.Millisecond)
			So(opts.Gap, ShouldEqual, 1500*time.Millisecond)
		})

		Convey("An unknown mode is an error", func() {
			viper.Set(key.TrainerMode, "paragraph")
			_, err := feedOptions()
			So(err, ShouldNotBeNil)
		})

		Convey("An empty pair is left for the interface to ask", func() {
			viper.Set(key.TrainerPair, "")
			opts, err := feedOptions()
			So(err, ShouldBeNil)
			So(opts.Pair.IsZero(), ShouldBeTrue)
		})
	})
}
