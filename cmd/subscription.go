package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/icon"
	"github.com/keypoint-cli/keypoint/payment"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(subscriptionCmd)
	subscriptionCmd.SetOut(os.Stdout)
}

var subscriptionCmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Manage the subscription",
}

func openStore() *store.Local {
	client, err := store.FromConfig(where.Store())
	handleErr(err)
	return client
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func init() {
	subscriptionCmd.AddCommand(subscriptionStatusCmd)
}

var subscriptionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the entitlement and every transaction",
	Run: func(cmd *cobra.Command, args []string) {
		client := openStore()

		entitled, err := client.Entitled(cmd.Context())
		handleErr(err)

		if entitled {
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Unlock)), "Subscribed")
		} else {
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Lock)), "Not subscribed")
		}

		transactions, err := client.Transactions()
		handleErr(err)
		if len(transactions) == 0 {
			return
		}

		sort.Slice(transactions, func(i, j int) bool {
			return transactions[i].PurchasedAt.After(transactions[j].PurchasedAt)
		})

		now := time.Now()
		rows := lo.Map(transactions, func(tx store.Transaction, _ int) []string {
			state := "inactive"
			switch {
			case !tx.Verified:
				state = "unverified"
			case tx.Active(now):
				state = "active"
			}
			return []string{tx.ID, tx.ProductID, formatTime(tx.PurchasedAt), formatTime(tx.ExpiresAt), state, fmt.Sprint(tx.Finished)}
		})

		cmd.Println()
		renderTable(cmd.OutOrStdout(), []string{"Transaction", "Product", "Purchased", "Expires", "State", "Finished"}, rows, nil, 0)
	},
}

func init() {
	subscriptionCmd.AddCommand(subscriptionBuyCmd)
	subscriptionBuyCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var subscriptionBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy the yearly subscription",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := openStore()

		products, err := client.Products(ctx)
		handleErr(err)

		product, ok := lo.Find(products, func(p store.Product) bool {
			return p.Kind == store.AutoRenewable
		})
		if !ok {
			handleErr(store.ErrNoProduct)
		}

		cmd.Println(style.Title(payment.Headline))
		cmd.Println(style.Faint(payment.Tagline))
		cmd.Println()

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			confirm := survey.Confirm{
				Message: fmt.Sprintf("%s for %s?", product.DisplayName, product.Price),
				Default: false,
			}
			var response bool
			handleErr(survey.AskOne(&confirm, &response))

			if !response {
				return
			}
		}

		result, err := client.Purchase(ctx, product)
		handleErr(err)

		switch result.Outcome {
		case store.Verified:
			tx := result.Transaction.MustGet()
			handleErr(client.Finish(ctx, tx))
			cmd.Printf("%s Subscribed until %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), formatTime(tx.ExpiresAt))
		case store.Unverified:
			handleErr(fmt.Errorf("payment failed: %s", result.Reason))
		case store.Pending:
			cmd.Println(style.Fg(color.Yellow)(payment.PendingNotice))
		case store.Cancelled:
			cmd.Println("Purchase cancelled")
		}
	},
}

func init() {
	subscriptionCmd.AddCommand(subscriptionResetCmd)
}

var subscriptionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every transaction and receipt",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(openStore().Reset())
		cmd.Printf("%s Subscription reset\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
