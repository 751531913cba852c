package protocol_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/protocol"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMarshalParse(t *testing.T) {
	Convey("Given every message kind", t, func() {
		msgs := []protocol.Message{
			protocol.AnswerSummary{Answers: model.NewUserAnswers(map[int]int{1: 2, 202: 1}).WithKey(101, 1)},
			protocol.PairResult{ResultID: 2013},
			protocol.PairResultPayload{Payloads: codec.MinimalPair("sid", 1022)},
		}

		Convey("Then each survives a wire round trip", func() {
			for _, m := range msgs {
				data, err := protocol.Marshal(m)
				So(err, ShouldBeNil)

				got, ok := protocol.Parse(data)
				So(ok, ShouldBeTrue)
				So(got.Kind(), ShouldEqual, m.Kind())
				So(cmp.Diff(m, got), ShouldBeEmpty)
			}
		})
	})
}

func TestParseGuard(t *testing.T) {
	Convey("Given frames that must be discarded", t, func() {
		cases := map[string]string{
			"not json":             `{{{`,
			"array":                `[1,2]`,
			"unknown kind":         `{"kind":"HELLO","payload":{}}`,
			"missing payload":      `{"kind":"PAIR_RESULT"}`,
			"null payload":         `{"kind":"ANSWER_SUMMARY","payload":null}`,
			"answers without map":  `{"kind":"ANSWER_SUMMARY","payload":{"bonus":3}}`,
			"result id as string":  `{"kind":"PAIR_RESULT","payload":"1011"}`,
			"result id off range":  `{"kind":"PAIR_RESULT","payload":1099}`,
			"payload views broken": `{"kind":"PAIR_RESULT_PAYLOAD","payload":{"A":{"sid":"s","view":"B","resultId":1011},"B":{"sid":"s","view":"A","resultId":1011}}}`,
		}
		for name, data := range cases {
			Convey(name, func() {
				m, ok := protocol.Parse([]byte(data))
				So(ok, ShouldBeFalse)
				So(m, ShouldBeNil)
			})
		}

		Convey("Unknown kinds report their own error", func() {
			_, err := protocol.ParseErr([]byte(`{"kind":"HELLO","payload":1}`))
			So(errors.Is(err, protocol.ErrUnknownKind), ShouldBeTrue)
		})
	})
}
