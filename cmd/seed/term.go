package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/utils"
)

var (
	termYear   int32
	termAutumn bool
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "创建一个空的学期",
	RunE: func(_ *cobra.Command, _ []string) error {
		term := utils.GenerateTerm(termYear, termAutumn)
		if err := utils.ValidateTermDates(term); err != nil {
			return err
		}
		if err := repo.CreateTerm(term); err != nil {
			return err
		}

		slog.Info("创建学期成功", "termID", term.ID, "term", term.Name)
		return nil
	},
}

func init() {
	termCmd.Flags().Int32Var(&termYear, "year", int32(time.Now().Year()), "学期所在年份")
	termCmd.Flags().BoolVar(&termAutumn, "autumn", false, "创建秋季学期")

	rootCmd.AddCommand(termCmd)
}
