package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"financial-report-slicer/cmd/slicer/config"
	"financial-report-slicer/internal/entities"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List the countries each legal entity invoices",
	Long: `Entities prints the country membership of the legal entities in effect on
a given day. APAC took over a group of Asia-Pacific countries from Europe on
` + entities.Cutover.Format(config.DateLayout) + `.

Examples:
  slicer entities
  slicer entities --as-of 2024-10-01 --entities europe,apac
  slicer entities --countries`,
	Args: cobra.NoArgs,
	RunE: runEntities,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)

	entitiesCmd.Flags().String("as-of", "", "membership date (YYYY-MM-DD, default: today)")
	entitiesCmd.Flags().StringSliceP("entities", "e", nil, "comma-separated legal entities to list (default: all)")
	entitiesCmd.Flags().Bool("countries", false, "list country names, one per line")
}

func runEntities(cmd *cobra.Command, args []string) error {
	asOfValue := viper.GetString("as-of")
	selected, err := config.CreateReconcilerConfig("", viper.GetStringSlice("entities"), asOfValue)
	if err != nil {
		return err
	}

	day := time.Now().UTC()
	if selected.AsOf != nil {
		day = *selected.AsOf
	}

	list := selected.SelectedEntities
	if len(list) == 0 {
		list = entities.All
	}

	writeMembership(cmd.OutOrStdout(), entities.TableAt(day), day, list, viper.GetBool("countries"))
	return nil
}

func writeMembership(w io.Writer, table *entities.MembershipTable, day time.Time, list []entities.LegalEntity, withNames bool) {
	fmt.Fprintf(w, "Membership as of %s (%s table)\n\n", day.Format(config.DateLayout), table.Version)

	for _, entity := range list {
		codes := table.Codes(entity)
		fmt.Fprintf(w, "%-10s %s (%d countries)\n", entity, entity.Title(), len(codes))
		if len(codes) == 0 {
			fmt.Fprintln(w)
			continue
		}

		if withNames {
			countries := table.Countries(entity)
			for _, code := range codes {
				fmt.Fprintf(w, "  %s  %s\n", code, countries[code])
			}
		} else {
			fmt.Fprintf(w, "  %s\n", strings.Join(codes, " "))
		}
		fmt.Fprintln(w)
	}
}
