package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/duoquiz/internal/config"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithWriter(&bytes.Buffer{}))
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	return path
}

func TestLoadAnswers(t *testing.T) {
	convey.Convey("Given an answers file", t, func() {
		convey.Convey("When it is complete", func() {
			u, err := loadAnswers(writeFile(t, "answers:\n  1: 3\n  2: 5\nkey_question_id: 101\nkey_answer: 2\nbonus: 4\n"))

			convey.Convey("Then every field is read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(u.Answers, convey.ShouldResemble, map[int]int{1: 3, 2: 5})
				convey.So(u.HasKey(), convey.ShouldBeTrue)
				convey.So(*u.KeyQuestionID, convey.ShouldEqual, 101)
				convey.So(*u.Bonus, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the key question has no answer", func() {
			_, err := loadAnswers(writeFile(t, "answers:\n  1: 3\nkey_question_id: 101\n"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When answers are missing", func() {
			_, err := loadAnswers(writeFile(t, "bonus: 2\n"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the file is not YAML", func() {
			_, err := loadAnswers(writeFile(t, "answers: [1, 2\n"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the file does not exist", func() {
			_, err := loadAnswers(filepath.Join(t.TempDir(), "missing.yaml"))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestTokenOf(t *testing.T) {
	convey.Convey("Tokens are taken from links or used as given", t, func() {
		convey.So(tokenOf("abc_-123"), convey.ShouldEqual, "abc_-123")
		convey.So(tokenOf("http://localhost:9080/result?d=abc_-123"), convey.ShouldEqual, "abc_-123")
		convey.So(tokenOf("http://localhost:9080/result?x=1"), convey.ShouldEqual, "http://localhost:9080/result?x=1")
	})
}

func TestPublicURL(t *testing.T) {
	convey.Convey("Given a listen address", t, func() {
		cfg := config.New()
		addr := &net.TCPAddr{IP: net.IPv4zero, Port: 9080}

		convey.So(publicURL(cfg, addr), convey.ShouldEqual, "http://localhost:9080")

		cfg.PublicURL = "https://quiz.example.com/"
		convey.So(publicURL(cfg, addr), convey.ShouldEqual, "https://quiz.example.com")
	})
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		var out bytes.Buffer
		root := rootCmd()
		root.SetOut(&out)
		root.SetErr(io.Discard)

		convey.Convey("When rendering a result link", func() {
			id := scoring.EncodeResultID(true, scoring.ArchetypeLead, scoring.ArchetypeAffection)
			p := codec.MinimalResult("s-1", model.ViewA, id)
			p.DuoVariant = scoring.DuoSyncSoft
			root.SetArgs([]string{"result", "--token", "http://h/result?d=" + codec.MustEncode(p)})

			convey.Convey("Then the duo view is printed", func() {
				convey.So(root.Execute(), convey.ShouldBeNil)
				want, _ := scoring.DuoView(scoring.DuoSyncSoft)
				convey.So(out.String(), convey.ShouldContainSubstring, want.Title)
				convey.So(out.String(), convey.ShouldContainSubstring, `"resultId": `)
			})
		})

		convey.Convey("When rendering a broken result token", func() {
			root.SetArgs([]string{"result", "--token", "nope"})
			convey.So(root.Execute(), convey.ShouldNotBeNil)
		})

		convey.Convey("When listing types", func() {
			root.SetArgs([]string{"types"})
			convey.So(root.Execute(), convey.ShouldBeNil)

			convey.Convey("Then every duo variant is listed", func() {
				for _, d := range scoring.DuoVariants {
					convey.So(out.String(), convey.ShouldContainSubstring, string(d))
				}
			})
		})

		convey.Convey("When printing the quiz with a fixed seed", func() {
			root.SetArgs([]string{"questions", "--seed", "7"})
			convey.So(root.Execute(), convey.ShouldBeNil)

			convey.Convey("Then base and special questions are listed", func() {
				convey.So(out.String(), convey.ShouldContainSubstring, "Questions")
				convey.So(out.String(), convey.ShouldContainSubstring, "[101]")
			})
		})

		convey.Convey("When asking for follow-ups", func() {
			path := writeFile(t, "answers:\n  1: 5\n  2: 5\n")
			root.SetArgs([]string{"questions", "--answers", path})
			convey.So(root.Execute(), convey.ShouldBeNil)

			convey.Convey("Then the configured number of follow-ups is printed", func() {
				convey.So(out.String(), convey.ShouldContainSubstring, "Follow-up questions")
				convey.So(strings.Count(out.String(), "  ["), convey.ShouldEqual, scoring.DefaultFollowupCount)
			})
		})

		convey.Convey("When host is missing its answers", func() {
			root.SetArgs([]string{"host"})
			convey.So(root.Execute(), convey.ShouldNotBeNil)
		})
	})
}

func TestHostAndJoin(t *testing.T) {
	convey.Convey("Given a host listening on a loopback port", t, func() {
		cfg := config.New()
		cfg.RetryDelayMS = 20
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		owner := model.NewUserAnswers(map[int]int{1: 5, 2: 5, 3: 1, 4: 2}).WithKey(101, 1).WithBonus(3)
		guest := owner.Clone()

		tokens := make(chan string, 1)
		hostOut := &syncBuffer{}
		hostDone := make(chan error, 1)
		go func() {
			hostDone <- runHost(ctx, cfg, ln, hostParams{
				invite:   codec.Invite{Role: model.RoleGuest, SID: "cli-test", BonusQ: "Beach?"},
				answers:  owner,
				out:      hostOut,
				linger:   500 * time.Millisecond,
				onInvite: func(tok string) { tokens <- tok },
			})
		}()

		tok := <-tokens
		inv, err := codec.Decode[codec.Invite](tok)
		convey.So(err, convey.ShouldBeNil)
		convey.So(inv.Addr, convey.ShouldStartWith, "http://127.0.0.1:")

		convey.Convey("When the guest joins with the same answers", func() {
			var joinOut bytes.Buffer
			err := runJoin(ctx, cfg, inv, guest, &joinOut)

			convey.Convey("Then both sides print the same strong sync result", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(<-hostDone, convey.ShouldBeNil)
				convey.So(joinOut.String(), convey.ShouldContainSubstring, string(scoring.DuoSyncStrong))
				convey.So(hostOut.String(), convey.ShouldContainSubstring, string(scoring.DuoSyncStrong))
				convey.So(hostOut.String(), convey.ShouldContainSubstring, "invite?d="+tok)
				convey.So(strings.Count(joinOut.String(), "result?d="), convey.ShouldEqual, 1)
				convey.So(joinOut.String(), convey.ShouldContainSubstring, "Beach?")
			})
		})
	})

	convey.Convey("A join without a host address fails fast", t, func() {
		err := runJoin(context.Background(), config.New(), codec.Invite{Role: model.RoleGuest, SID: "x"},
			model.NewUserAnswers(map[int]int{1: 1}), &bytes.Buffer{})
		convey.So(err, convey.ShouldEqual, errNoHostAddr)
	})
}
