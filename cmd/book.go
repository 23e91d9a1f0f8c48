package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/history"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/open"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(bookCmd)
}

var bookCmd = &cobra.Command{
	Use:     "book",
	Aliases: []string{"books"},
	Short:   "Manage book catalogs",
}

func completionBooks(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	entries, err := book.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(entries, func(e *book.Entry, _ int) string {
		return e.Book.Name()
	}), cobra.ShellCompDirectiveNoFileComp
}

// findBook resolves the optional book argument, defaulting to the sample.
func findBook(args []string) *book.Entry {
	if len(args) == 0 {
		return &book.Entry{Book: book.Sample()}
	}

	entry, err := book.Find(args[0])
	handleErr(err)
	return entry
}

func init() {
	bookCmd.AddCommand(bookListCmd)
	bookListCmd.Flags().BoolP("json", "j", false, "Output as json")
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the books in the library",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := book.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Map(entries, func(e *book.Entry, _ int) map[string]any {
				return map[string]any{"path": e.Path, "book": e.Book}
			})))
			return
		}

		if len(entries) == 0 {
			cmd.Printf("No books in %s\n", where.Library())
			return
		}

		rows := lo.Map(entries, func(e *book.Entry, _ int) []string {
			progress := "-"
			if i, ok := history.Last(e.Book, e.Path).Get(); ok {
				progress = fmt.Sprintf("%d / %d", i+1, e.Book.Len())
			}
			return []string{e.Book.Name(), e.Book.Author, strconv.Itoa(e.Book.Len()), progress, e.Path}
		})

		renderTable(cmd.OutOrStdout(), []string{"Title", "Author", "Key points", "Progress", "Path"}, rows, []int{2, 3}, 0)
	},
}

func init() {
	bookCmd.AddCommand(bookShowCmd)
}

var bookShowCmd = &cobra.Command{
	Use:               "show [book]",
	Short:             "Show the key points of a book",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionBooks,
	Run: func(cmd *cobra.Command, args []string) {
		entry := findBook(args)
		b := entry.Book

		cmd.Println(style.Title(b.Name()))
		if b.Author != "" {
			cmd.Println(style.Faint(b.Author))
		}
		cmd.Println()

		rows := lo.Map(b.KeyPoints, func(kp book.KeyPoint, i int) []string {
			audio := kp.Audio
			if kp.Media().IsAbsent() {
				audio = style.Fg(color.Red)(audio + " (invalid)")
			}
			return []string{strconv.Itoa(i + 1), kp.Text, audio}
		})

		renderTable(cmd.OutOrStdout(), []string{"#", "Text", "Audio"}, rows, []int{0}, 60)
	},
}

func init() {
	bookCmd.AddCommand(bookSchemaCmd)
}

var bookSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of book catalogs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return filepath.Base(t.PkgPath()) + "." + t.Name()
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(reflector.Reflect(&book.Book{})))
	},
}

func init() {
	bookCmd.AddCommand(bookSampleCmd)
	bookSampleCmd.Flags().StringP("format", "f", string(book.TOML), "Catalog format")
	lo.Must0(bookSampleCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(book.Formats, func(f book.Format, _ int) string { return string(f) }), cobra.ShellCompDirectiveNoFileComp
	}))
}

var bookSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in sample book as a catalog",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := book.Encode(book.Sample(), book.Format(lo.Must(cmd.Flags().GetString("format"))))
		handleErr(err)
		cmd.Print(string(data))
	},
}

func init() {
	bookCmd.AddCommand(bookNewCmd)

	bookNewCmd.Flags().StringP("author", "a", "", "Book author")
	bookNewCmd.Flags().String("cover", "", "Cover image URL or path")
	bookNewCmd.Flags().IntP("key-points", "k", 3, "Number of key points to scaffold")
}

var bookNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Scaffold a new catalog in the library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		author := lo.Must(cmd.Flags().GetString("author"))
		if author == "" {
			if usr, err := user.Current(); err == nil {
				author = usr.Username
			}
		}

		s := struct {
			Title     string
			Author    string
			Cover     string
			KeyPoints int
			App       string
			Version   string
		}{
			Title:     args[0],
			Author:    author,
			Cover:     lo.Must(cmd.Flags().GetString("cover")),
			KeyPoints: max(lo.Must(cmd.Flags().GetInt("key-points")), 1),
			App:       constant.Keypoint,
			Version:   constant.Version,
		}

		funcMap := template.FuncMap{
			"quote": strconv.Quote,
			"until": func(n int) []int { return lo.Range(n) },
			"plus":  func(a, b int) int { return a + b },
		}

		tmpl, err := template.New("catalog").Funcs(funcMap).Parse(constant.CatalogTemplate)
		handleErr(err)

		target := filepath.Join(where.Library(), util.SanitizeFilename(s.Title)+".toml")
		if exists, _ := filesystem.API().Exists(target); exists {
			handleErr(fmt.Errorf("%s already exists", target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))

		cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), target)
	},
}

func init() {
	bookCmd.AddCommand(bookCoverCmd)
}

var bookCoverCmd = &cobra.Command{
	Use:               "cover [book]",
	Short:             "Open the cover image of a book",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionBooks,
	Run: func(cmd *cobra.Command, args []string) {
		b := findBook(args).Book
		cover := strings.TrimSpace(b.Cover)
		if cover == "" {
			handleErr(fmt.Errorf("%s has no cover", b.Name()))
		}

		handleErr(open.Start(cover))
	},
}

func init() {
	bookCmd.SetOut(os.Stdout)
}
