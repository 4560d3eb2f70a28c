package hid

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mobile-next/hidcli/utils"
)

// Bridge converts a line-oriented touch event feed into a lazy, unbounded
// event sequence. One malformed line is logged and skipped; it never ends
// the stream. The stream ends when the feed does (EOF or read fault) or
// when the consumer's context is canceled. A bridge cannot be restarted;
// create a new one per feed.
type Bridge struct {
	session string
	reader  *bufio.Reader
}

func NewBridge(r io.Reader) *Bridge {
	return &Bridge{
		session: uuid.NewString(),
		reader:  bufio.NewReader(r),
	}
}

// Session returns the bridge's session ID, used to correlate log lines.
func (b *Bridge) Session() string {
	return b.session
}

type readLine struct {
	text string
	err  error
}

// Events starts reading from the feed and returns the event channel. The
// channel is unbuffered, so at most one event is in flight at a time and
// events arrive in exactly the order their source lines were read. The
// channel is closed on end of feed, read fault, or context cancellation.
//
// The blocking read runs on its own goroutine so that a stalled feed never
// blocks cancellation or delivery of already-produced events. When the
// context is canceled while a read is in flight, that goroutine exits
// after the read returns.
func (b *Bridge) Events(ctx context.Context) <-chan Event {
	lines := make(chan readLine)
	go b.readLoop(ctx, lines)

	events := make(chan Event)
	go func() {
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				utils.Info("stream %s: canceled", b.session)
				return

			case line, ok := <-lines:
				if !ok {
					return
				}

				if line.text != "" {
					event, err := ParseStreamLine([]byte(line.text))
					if err != nil {
						utils.Warn("stream %s: skipping line: %v", b.session, err)
					} else {
						select {
						case events <- event:
						case <-ctx.Done():
							utils.Info("stream %s: canceled", b.session)
							return
						}
					}
				}

				if line.err != nil {
					if line.err == io.EOF {
						utils.Info("stream %s: feed ended", b.session)
					} else {
						utils.Warn("stream %s: feed read error: %v", b.session, line.err)
					}
					return
				}
			}
		}
	}()

	return events
}

func (b *Bridge) readLoop(ctx context.Context, lines chan<- readLine) {
	defer close(lines)

	for {
		text, err := b.reader.ReadString('\n')
		text = strings.TrimSpace(text)

		select {
		case lines <- readLine{text: text, err: err}:
		case <-ctx.Done():
			return
		}

		if err != nil {
			return
		}
	}
}
