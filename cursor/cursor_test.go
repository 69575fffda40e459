package cursor_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/internal/streamtest"
	"github.com/calcoloergosum/vocagen/item"
	. "github.com/smartystreets/goconvey/convey"
)

// fetch answers a request the way the word stream does.
func fetch(content streamtest.Content, req cursor.FetchRequest) ([]*item.Item, cursor.Token) {
	seed, err := content.Seed(req.Token.String())
	if err != nil {
		panic(err)
	}

	state := content.Step(seed, req.Direction.Action())
	_, items := content.Word(state)
	return items, cursor.NewToken(streamtest.Hex(state))
}

func move(c *cursor.Cursor, content streamtest.Content, m cursor.Move) {
	if req, ok := m.(cursor.FetchRequest); ok {
		items, token := fetch(content, req)
		So(c.Apply(req, items, token), ShouldBeNil)
	}
}

func TestCursor(t *testing.T) {
	content := streamtest.Default()

	Convey("Given an empty cursor", t, func() {
		c := cursor.New(cursor.Token{})

		So(c.Current().IsAbsent(), ShouldBeTrue)
		So(c.Token().IsZero(), ShouldBeTrue)

		Convey("Advancing asks for the first batch", func() {
			m := c.Advance()
			req, ok := m.(cursor.FetchRequest)
			So(ok, ShouldBeTrue)
			So(req.Direction, ShouldEqual, cursor.Forward)
			So(req.Token.IsZero(), ShouldBeTrue)
			So(c.Pending(), ShouldBeTrue)

			Convey("Applying it lands on the first item", func() {
				items, token := fetch(content, req)
				So(c.Apply(req, items, token), ShouldBeNil)
				So(c.Pending(), ShouldBeFalse)
				So(c.Position(), ShouldEqual, 0)
				So(c.Current().MustGet(), ShouldEqual, items[0])
				So(c.Token(), ShouldResemble, token)
			})
		})

		Convey("Retreating asks for the previous batch and lands on its last item", func() {
			req := c.Retreat().(cursor.FetchRequest)
			So(req.Direction, ShouldEqual, cursor.Backward)

			items, token := fetch(content, req)
			So(c.Apply(req, items, token), ShouldBeNil)
			So(c.Position(), ShouldEqual, len(items)-1)
		})
	})

	Convey("Given a cursor inside a batch", t, func() {
		c := cursor.New(cursor.Token{})
		move(c, content, c.Advance())
		So(c.Len(), ShouldEqual, content.WordSize)

		Convey("Moves inside the batch stay local", func() {
			m := c.Advance()
			So(m, ShouldResemble, cursor.LocalMove{Position: 1})
			So(c.Pending(), ShouldBeFalse)

			m = c.Retreat()
			So(m, ShouldResemble, cursor.LocalMove{Position: 0})
		})

		Convey("Leaving the batch forward and coming back restores the previous batch", func() {
			first := c.Token()
			_, original := content.Word(mustParse(first))

			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			last := c.Current().MustGet()
			So(last, ShouldResemble, original[len(original)-1])

			move(c, content, c.Advance())
			So(c.Position(), ShouldEqual, 0)
			So(c.Token(), ShouldNotResemble, first)

			move(c, content, c.Retreat())
			So(c.Token(), ShouldResemble, first)
			So(c.Current().MustGet(), ShouldResemble, last)
		})

		Convey("Only the latest of two fetches applies", func() {
			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			before := c.Token()

			older := c.Advance().(cursor.FetchRequest)
			newer := c.Advance().(cursor.FetchRequest)
			So(newer.Token, ShouldResemble, before)

			items, token := fetch(content, older)
			So(c.Apply(older, items, token), ShouldEqual, cursor.ErrStale)
			So(c.Token(), ShouldResemble, before)
			So(c.Pending(), ShouldBeTrue)

			items, token = fetch(content, newer)
			So(c.Apply(newer, items, token), ShouldBeNil)
			So(c.Token(), ShouldResemble, token)
			So(c.Pending(), ShouldBeFalse)
		})

		Convey("A local move supersedes a fetch in flight", func() {
			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			req := c.Advance().(cursor.FetchRequest)
			So(c.Retreat(), ShouldResemble, cursor.LocalMove{Position: content.WordSize - 2})

			items, token := fetch(content, req)
			So(c.Apply(req, items, token), ShouldEqual, cursor.ErrStale)
			So(c.Position(), ShouldEqual, content.WordSize-2)
		})

		Convey("A failed fetch leaves the cursor where it was", func() {
			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			before, position := c.Token(), c.Position()

			req := c.Advance().(cursor.FetchRequest)
			So(c.Fail(req), ShouldBeTrue)
			So(c.Fail(req), ShouldBeFalse)
			So(c.Pending(), ShouldBeFalse)
			So(c.Token(), ShouldResemble, before)
			So(c.Position(), ShouldEqual, position)

			again := c.Advance().(cursor.FetchRequest)
			So(again.Token, ShouldResemble, req.Token)
		})

		Convey("An empty batch is rejected", func() {
			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			before := c.Token()

			req := c.Advance().(cursor.FetchRequest)
			So(c.Apply(req, nil, cursor.NewToken("ff")), ShouldEqual, cursor.ErrEmptyBatch)
			So(c.Token(), ShouldResemble, before)
			So(c.Pending(), ShouldBeFalse)
		})

		Convey("Invalidate drops a fetch in flight", func() {
			for i := 1; i < content.WordSize; i++ {
				move(c, content, c.Advance())
			}
			req := c.Advance().(cursor.FetchRequest)
			c.Invalidate()

			items, token := fetch(content, req)
			So(c.Apply(req, items, token), ShouldEqual, cursor.ErrStale)
		})
	})

	Convey("Given a cursor resumed from a saved token", t, func() {
		start := streamtest.Next(content.Start)
		c := cursor.New(cursor.NewToken(streamtest.Hex(start)))

		req := c.Advance().(cursor.FetchRequest)
		So(req.Token.String(), ShouldEqual, streamtest.Hex(start))

		items, token := fetch(content, req)
		So(c.Apply(req, items, token), ShouldBeNil)
		So(token.String(), ShouldEqual, streamtest.Hex(streamtest.Next(start)))
	})
}

func mustParse(t cursor.Token) uint64 {
	v, err := strconv.ParseUint(t.String(), 16, 64)
	if err != nil {
		panic(err)
	}
	return v
}

func TestToken(t *testing.T) {
	Convey("Tokens decode from strings, numbers and null", t, func() {
		var tok cursor.Token

		So(json.Unmarshal([]byte(`"ef227a1d9bb02051"`), &tok), ShouldBeNil)
		So(tok.String(), ShouldEqual, "ef227a1d9bb02051")

		So(json.Unmarshal([]byte(`17231469391857590353`), &tok), ShouldBeNil)
		So(tok.String(), ShouldEqual, "17231469391857590353")

		So(json.Unmarshal([]byte(`null`), &tok), ShouldBeNil)
		So(tok.IsZero(), ShouldBeTrue)

		So(json.Unmarshal([]byte(`{}`), &tok), ShouldNotBeNil)
	})

	Convey("Tokens encode as strings, or null at the start of the stream", t, func() {
		data, err := json.Marshal(cursor.NewToken("42"))
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `"42"`)

		data, err = json.Marshal(cursor.Token{})
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `null`)
	})
}
