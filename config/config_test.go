package config

import (
	"testing"

	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.TrainerRepeat), ShouldEqual, 3)
			So(viper.GetInt(key.TrainerPauseMs), ShouldEqual, 1000)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("trainer.hide_native"), ShouldEqual, "trainer_hide_native")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the trainer mode field", t, func() {
		field := Default[key.TrainerMode]

		Convey("It accepts a listed choice", func() {
			So(field.Accepts("word"), ShouldBeNil)
		})

		Convey("It rejects an unlisted choice", func() {
			So(field.Accepts("story"), ShouldNotBeNil)
		})

		Convey("It rejects a value of the wrong type", func() {
			So(field.Accepts(3), ShouldNotBeNil)
		})

		Convey("Its env name carries the application prefix", func() {
			So(field.Env(), ShouldEqual, "VOCAGEN_TRAINER_MODE")
		})
	})

	Convey("Given the repeat field", t, func() {
		field := Default[key.TrainerRepeat]

		Convey("Negative values are rejected", func() {
			So(field.Accepts(-1), ShouldNotBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given an invalid order in the live configuration", t, func() {
		_ = Setup()
		viper.Set(key.TrainerOrder, "alphabetical")
		Reset(func() {
			viper.Set(key.TrainerOrder, Default[key.TrainerOrder].Value)
		})

		Convey("Validate reports it", func() {
			err := Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.TrainerOrder)
		})
	})
}
