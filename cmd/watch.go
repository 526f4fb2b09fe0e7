package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/gateway"
	"github.com/bnema/selfcord/internal/adapters/render/frames"
	"github.com/cenkalti/backoff/v5"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	events        []string
	count         int
	maxReconnects uint
	debug         bool
	output        string
}

type watchLine struct {
	Time  time.Time     `json:"time"`
	Event string        `json:"event"`
	Data  gateway.Event `json:"data"`
}

func newWatchCmd(app *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream gateway events, reconnecting when the connection drops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateWatchOutput(opts.output); err != nil {
				return err
			}

			var debugger gateway.Debugger
			if opts.debug {
				debugger = frames.NewDebugger(cmd.ErrOrStderr())
			}

			client, accountID, err := connect(cmd, app, connectOptions{debugger: debugger})
			if err != nil {
				return err
			}

			w := newEventWriter(cmd.OutOrStdout(), opts, app.now)
			unsubscribe := client.Subscribe(w.handle)
			defer unsubscribe()

			attempt := func() (struct{}, error) {
				if err := client.Login(cmd.Context()); err != nil {
					if cmd.Context().Err() != nil {
						return struct{}{}, backoff.Permanent(cmd.Context().Err())
					}
					return struct{}{}, fmt.Errorf("login: %w", err)
				}
				if accountID != "" {
					if err := recordSession(cmd.Context(), app, accountID, client); err != nil {
						app.logger.Warn("could not record session", "account", accountID, "err", err)
					}
				}

				select {
				case <-cmd.Context().Done():
					client.Logout()
					return struct{}{}, nil
				case <-w.done:
					client.Logout()
					return struct{}{}, nil
				case err := <-w.closed:
					return struct{}{}, fmt.Errorf("gateway closed: %w", err)
				}
			}

			_, err = backoff.Retry(cmd.Context(), attempt,
				backoff.WithBackOff(reconnectBackOff()),
				backoff.WithMaxTries(opts.maxReconnects+1),
				backoff.WithNotify(func(err error, wait time.Duration) {
					app.logger.Warn("reconnecting", "err", err, "wait", wait)
				}),
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&opts.events, "event", nil, "Only print these event names (repeatable, e.g. MESSAGE_CREATE)")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Stop after this many events (0 = unlimited)")
	cmd.Flags().UintVar(&opts.maxReconnects, "max-reconnects", 5, "Reconnect attempts before giving up")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print raw gateway frames to stderr")
	addOutputFlag(cmd, &opts.output)

	return cmd
}

// Event streams are line oriented, so only text and JSON lines are offered.
func validateWatchOutput(format string) error {
	switch format {
	case "", outputText, outputJSON:
		return nil
	case outputYAML:
		return fmt.Errorf("watch does not support %q output, use text or json", format)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func reconnectBackOff() *backoff.ExponentialBackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 500 * time.Millisecond
	eb.RandomizationFactor = 1
	eb.Multiplier = 2
	eb.MaxInterval = 10 * time.Second
	return eb
}

// eventWriter prints events as they arrive. Handlers run on the gateway
// reader goroutine, one at a time.
type eventWriter struct {
	out     io.Writer
	opts    watchOptions
	now     func() time.Time
	filter  map[string]bool
	printed int

	done     chan struct{}
	doneOnce sync.Once
	closed   chan error
}

func newEventWriter(out io.Writer, opts watchOptions, now func() time.Time) *eventWriter {
	w := &eventWriter{
		out:    out,
		opts:   opts,
		now:    now,
		done:   make(chan struct{}),
		closed: make(chan error, 1),
	}
	if len(opts.events) > 0 {
		w.filter = make(map[string]bool, len(opts.events))
		for _, name := range opts.events {
			w.filter[strings.ToUpper(strings.TrimSpace(name))] = true
		}
	}
	return w
}

func (w *eventWriter) handle(ev gateway.Event) {
	if closed, ok := ev.(gateway.ClosedEvent); ok {
		select {
		case w.closed <- closed.Err:
		default:
		}
		return
	}

	if w.filter != nil && !w.filter[ev.EventName()] {
		return
	}
	if w.finished() {
		return
	}

	if err := w.write(ev); err != nil {
		return
	}

	w.printed++
	if w.opts.count > 0 && w.printed >= w.opts.count {
		w.doneOnce.Do(func() { close(w.done) })
	}
}

func (w *eventWriter) finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *eventWriter) write(ev gateway.Event) error {
	line := watchLine{Time: w.now().UTC(), Event: ev.EventName(), Data: ev}

	switch w.opts.output {
	case outputJSON:
		return json.NewEncoder(w.out).Encode(line)
	default:
		_, err := fmt.Fprintf(w.out, "%s %s %s\n", line.Time.Format("15:04:05"), line.Event, eventSummary(ev))
		return err
	}
}

func eventSummary(ev gateway.Event) string {
	switch e := ev.(type) {
	case gateway.ReadyEvent:
		return fmt.Sprintf("%s, %d guilds", e.Session.User.Tag(), len(e.Session.Guilds))
	case gateway.MessageCreateEvent:
		return fmt.Sprintf("#%s %s: %s", e.Message.ChannelID, e.Message.Author.Tag(), e.Message.Content)
	case gateway.MessageUpdateEvent:
		return fmt.Sprintf("#%s %s edited: %s", e.Message.ChannelID, e.Message.ID, e.Message.Content)
	case gateway.MessageDeleteEvent:
		return fmt.Sprintf("#%s %s", e.ChannelID, e.ID)
	case gateway.TypingStartEvent:
		return fmt.Sprintf("#%s %s", e.ChannelID, e.UserID)
	case gateway.UnknownEvent:
		return string(e.Data)
	default:
		raw, err := json.Marshal(ev)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
