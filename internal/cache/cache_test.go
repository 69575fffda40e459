package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/calcoloergosum/vocagen/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Keys are stable and file-name safe", t, func() {
		So(Key("http://x/a.mp3"), ShouldEqual, Key(" http://x/a.mp3 "))
		So(Key("http://x/a.mp3"), ShouldNotEqual, Key("http://x/b.mp3"))
		So(Key("http://x/a.mp3"), ShouldNotContainSubstring, "/")
	})

	Convey("Written clips can be read back", t, func() {
		key := Key("http://x/a.mp3")
		_, ok := Read(key)
		So(ok, ShouldBeFalse)

		So(Write(key, []byte("ID3")), ShouldBeNil)

		data, ok := Read(key)
		So(ok, ShouldBeTrue)
		So(string(data), ShouldEqual, "ID3")

		Convey("Expired clips are ignored", func() {
			old := time.Now().Add(-TTL - time.Hour)
			So(filesystem.API().Chtimes(filepath.Join(Dir(), key), old, old), ShouldBeNil)

			_, ok := Read(key)
			So(ok, ShouldBeFalse)
		})
	})
}
