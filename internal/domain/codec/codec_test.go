package codec_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

func rawToken(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

func fullResult() codec.ResultPayload {
	return codec.ResultPayload{
		SID:                "sid-1",
		View:               model.ViewA,
		ResultID:           1043,
		DuoVariant:         scoring.DuoSyncSoft,
		SoloVariantSelf:    "4-neg-pos",
		SoloVariantPartner: "3-pos-pos",
		SoloAvatarSelf:     "🐻",
		SoloAvatarPartner:  "🦁",
		Highlight:          &codec.Highlight{QuestionID: 1, Question: "Your ideal weekend date?", MyAnswer: intp(1), PartnerAnswer: intp(4)},
		BonusDetail:        &codec.BonusDetail{Question: "How spicy?", Label: "spice", MinLabel: "mild", MaxLabel: "hot", OwnerAnswer: intp(2)},
		Answers:            &codec.AnswerPair{Self: map[int]int{1: 1, 201: 2}, Partner: map[int]int{1: 4}},
	}
}

func TestRoundTrip(t *testing.T) {
	Convey("Given valid payloads of every kind", t, func() {
		Convey("An invite round-trips", func() {
			in := codec.Invite{Role: model.RoleGuest, SID: "abc", Addr: "127.0.0.1:8080", BonusQ: "Q?", BonusLabel: "L", BonusMin: "lo", BonusMax: "hi"}
			tok, err := codec.Encode(in)
			So(err, ShouldBeNil)
			So(strings.ContainsAny(tok, "+/="), ShouldBeFalse)

			out, err := codec.Decode[codec.Invite](tok)
			So(err, ShouldBeNil)
			So(cmp.Diff(in, out), ShouldBeEmpty)
		})

		Convey("An answer summary round-trips", func() {
			in := codec.AnswerSummary{SID: "abc", Answers: model.NewUserAnswers(map[int]int{1: 2, 205: 5}).WithKey(103, 1).WithBonus(3)}
			out, err := codec.Decode[codec.AnswerSummary](codec.MustEncode(in))
			So(err, ShouldBeNil)
			So(cmp.Diff(in, out), ShouldBeEmpty)
		})

		Convey("Full and minimal results round-trip", func() {
			for _, in := range []codec.ResultPayload{fullResult(), codec.MinimalResult("sid-2", model.ViewB, 2011)} {
				out, err := codec.Decode[codec.ResultPayload](codec.MustEncode(in))
				So(err, ShouldBeNil)
				So(cmp.Diff(in, out), ShouldBeEmpty)
				So(out.Full(), ShouldEqual, in.Answers != nil)
			}
		})
	})
}

func TestDecodeErrors(t *testing.T) {
	Convey("Given tokens that must be rejected", t, func() {
		Convey("Garbage is malformed", func() {
			_, err := codec.Decode[codec.Invite]("%%%not-base64")
			So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)

			_, err = codec.Decode[codec.Invite](rawToken("{not json"))
			So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)

			var de *codec.DecodeError
			So(errors.As(err, &de), ShouldBeTrue)
		})

		Convey("A newer version fails before the payload is looked at", func() {
			_, err := codec.Decode[codec.Invite](rawToken(`{"v":2,"t":"invite","p":{"role":"guest","sid":"x","future":true}}`))
			So(errors.Is(err, codec.ErrVersion), ShouldBeTrue)
			So(errors.Is(err, codec.ErrShape), ShouldBeFalse)
		})

		Convey("A missing version is rejected", func() {
			_, err := codec.Decode[codec.Invite](rawToken(`{"t":"invite","p":{"role":"guest","sid":"x"}}`))
			So(errors.Is(err, codec.ErrVersion), ShouldBeTrue)
		})

		Convey("A different kind is rejected", func() {
			tok := codec.MustEncode(codec.Invite{Role: model.RoleGuest, SID: "x"})
			_, err := codec.Decode[codec.ResultPayload](tok)
			So(errors.Is(err, codec.ErrKind), ShouldBeTrue)

			kind, err := codec.PeekKind(tok)
			So(err, ShouldBeNil)
			So(kind, ShouldEqual, codec.KindInvite)
		})

		Convey("Shape mismatches are rejected", func() {
			bad := []string{
				`{"v":1,"t":"invite","p":{"role":"guest"}}`,
				`{"v":1,"t":"invite","p":{"role":"boss","sid":"x"}}`,
				`{"v":1,"t":"invite","p":{"role":"guest","sid":"x","extra":1}}`,
				`{"v":1,"t":"invite","p":null}`,
				`{"v":1,"t":"invite"}`,
				`{"v":1,"t":"invite","p":{"role":"guest","sid":7}}`,
			}
			for _, s := range bad {
				_, err := codec.Decode[codec.Invite](rawToken(s))
				So(errors.Is(err, codec.ErrShape), ShouldBeTrue)
			}

			_, err := codec.Decode[codec.ResultPayload](rawToken(`{"v":1,"t":"result","p":{"sid":"x","view":"A","resultId":1099}}`))
			So(errors.Is(err, codec.ErrShape), ShouldBeTrue)

			_, err = codec.Decode[codec.AnswerSummary](rawToken(`{"v":1,"t":"answers","p":{"sid":"x","answers":{}}}`))
			So(errors.Is(err, codec.ErrShape), ShouldBeTrue)
		})

		Convey("Encoding an invalid payload fails", func() {
			_, err := codec.Encode(codec.Invite{Role: model.RoleGuest})
			So(errors.Is(err, codec.ErrShape), ShouldBeTrue)
		})
	})
}

func TestPairPayloads(t *testing.T) {
	Convey("Given pair payloads", t, func() {
		p := codec.MinimalPair("sid", 2034)

		Convey("Minimal pairs validate and are not full", func() {
			So(p.Validate(), ShouldBeNil)
			So(p.Full(), ShouldBeFalse)
			So(p.For(model.ViewB).View, ShouldEqual, model.ViewB)
		})

		Convey("Disagreeing views are rejected", func() {
			p.B.ResultID = 2033
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("Swapped views are rejected", func() {
			p.A, p.B = p.B, p.A
			So(p.Validate(), ShouldNotBeNil)
		})
	})
}
