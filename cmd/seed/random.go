package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/seed"
)

var randomOpts seed.RandomOptions

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "生成随机的教师、课程和一个学期的开课",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// 未显式指定的数量使用配置中的默认值
		if !cmd.Flags().Changed("professors") {
			randomOpts.Professors = cfg.Seed.Professors
		}
		if !cmd.Flags().Changed("courses") {
			randomOpts.Courses = cfg.Seed.Courses
		}
		if !cmd.Flags().Changed("offerings") {
			randomOpts.Offerings = cfg.Seed.Offerings
		}

		term, err := seed.NewSeeder(repo).SeedRandom(randomOpts)
		if err != nil {
			return err
		}

		slog.Info("随机数据生成完成", "termID", term.ID, "term", term.Name)
		return nil
	},
}

func init() {
	randomCmd.Flags().IntVar(&randomOpts.Professors, "professors", 0, "教师数量（默认读取 SEED_PROFESSORS）")
	randomCmd.Flags().IntVar(&randomOpts.Courses, "courses", 0, "课程数量（默认读取 SEED_COURSES）")
	randomCmd.Flags().IntVar(&randomOpts.Offerings, "offerings", 0, "开课数量（默认读取 SEED_OFFERINGS）")
	randomCmd.Flags().Int32Var(&randomOpts.Year, "year", int32(time.Now().Year()), "学期所在年份")
	randomCmd.Flags().BoolVar(&randomOpts.Autumn, "autumn", false, "生成秋季学期")

	rootCmd.AddCommand(randomCmd)
}
