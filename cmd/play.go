package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/controls"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/internal/loop"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/player"
	"github.com/keypoint-cli/keypoint/rate"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/summary"
	"github.com/keypoint-cli/keypoint/tui"
	"github.com/keypoint-cli/keypoint/where"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("continue", "c", false, "Play the most recently listened book")
	playCmd.Flags().IntP("index", "i", 0, "Key point number to start at")
	playCmd.Flags().StringP("rate", "r", "", "Playback rate")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("rate", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(rate.All(), func(r rate.Rate, _ int) string { return r.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
	playCmd.Flags().Bool("plain", false, "Print key points instead of opening the player, implied when stdout is not a terminal")

	playCmd.MarkFlagsMutuallyExclusive("continue", "index")
}

var playCmd = &cobra.Command{
	Use:   "play [book]",
	Short: "Play a book summary",
	Long: `Play a book summary.
The book is a catalog path or a title from the library. Without one the built-in sample is played.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			entry *book.Entry
			index mo.Option[int]
			err   error
		)

		switch {
		case lo.Must(cmd.Flags().GetBool("continue")):
			var i int
			entry, i, err = history.Resume()
			handleErr(err)
			index = mo.Some(i)
		case len(args) == 1:
			entry, err = book.Find(args[0])
			handleErr(err)
		default:
			entry = &book.Entry{Book: book.Sample()}
		}

		if cmd.Flags().Changed("index") {
			n := lo.Must(cmd.Flags().GetInt("index"))
			if !entry.Book.Contains(n - 1) {
				handleErr(fmt.Errorf("%s has key points 1 to %d", entry.Book.Name(), entry.Book.Len()))
			}
			index = mo.Some(n - 1)
		}

		r := configuredRate()
		if cmd.Flags().Changed("rate") {
			r, err = rate.Parse(lo.Must(cmd.Flags().GetString("rate")))
			handleErr(err)
		}

		backend := viper.GetString(key.Player)
		CheckDependencies(backend)

		plain := lo.Must(cmd.Flags().GetBool("plain")) || !term.IsTerminal(int(os.Stdout.Fd()))
		if !plain {
			handleErr(tui.Run(cmd.Context(), &tui.Options{
				Entry:  mo.Some(entry),
				Index:  index,
				Player: backend,
				Rate:   r,
			}))
			return
		}

		handleErr(playPlain(cmd.Context(), cmd.OutOrStdout(), entry, index, backend, r))
	},
}

// playPlain plays every key point from the start index to the end of the
// book, printing each one as it starts.
func playPlain(ctx context.Context, w io.Writer, entry *book.Entry, index mo.Option[int], backend string, r rate.Rate) error {
	client, err := store.FromConfig(where.Store())
	if err != nil {
		return err
	}

	entitled, err := client.Entitled(ctx)
	if err != nil {
		log.Warnf("entitlement check: %v", err)
	}
	if !entitled {
		return errors.New(`a subscription is required, run "keypoint subscription buy"`)
	}

	b, err := player.New(backend)
	if err != nil {
		return err
	}

	engine := player.NewEngine(b, player.WithRate(r))
	defer engine.Close()

	save := func(i int) {
		if !viper.GetBool(key.HistorySave) {
			return
		}
		if err := history.Save(entry.Book, entry.Path, i); err != nil {
			log.Warnf("save history: %v", err)
		}
	}

	m, err := summary.New(
		ctx,
		engine,
		entry.Book,
		summary.WithIndex(index.OrElse(history.Last(entry.Book, entry.Path).OrElse(0))),
		summary.WithAutoplay(true),
		summary.OnSelect(save),
	)
	if err != nil {
		return err
	}
	save(m.Index)

	l := loop.New(m.Update)
	defer l.Stop()
	l.Exec(m.Init())

	fmt.Fprintln(w, style.Title(entry.Book.Name()))
	fmt.Fprintln(w)

	shown := -1
	announce := func() {
		if shown == m.Index {
			return
		}
		shown = m.Index
		fmt.Fprintf(
			w,
			"%s %s\n%s\n\n",
			style.Fg(color.Purple)(icon.Get(icon.Play)),
			style.Bold(fmt.Sprintf("KEY POINT %d OF %d", m.Index+1, m.Book.Len())),
			wordwrap.String(m.KeyPoint().Text, 80),
		)
	}
	announce()

	last := m.Index
	err = l.Until(ctx, func(msg tea.Msg) bool {
		announce()

		// Next that leaves the index in place is the end of the book
		_, next := msg.(controls.NextKeyPointMsg)
		done := next && m.Index == last
		last = m.Index
		return done
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Finished %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), entry.Book.Name())
	return nil
}
