package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/seed"
)

var (
	importProfessorsFile string
	importOfferingsFile  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "从 CSV 文件导入教师和开课",
	Long:  "教师文件的表头为 code,full_name,title_level,max_workload,contract_model,areas；开课文件的表头为 term,course,class,area,required_level,workload。",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importProfessorsFile, "professors", "", "教师 CSV 文件路径")
	importCmd.Flags().StringVar(&importOfferingsFile, "offerings", "", "开课 CSV 文件路径")

	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, _ []string) error {
	if importProfessorsFile == "" && importOfferingsFile == "" {
		return errors.New("至少需要指定 --professors 或 --offerings 中的一个")
	}

	seeder := seed.NewSeeder(repo)

	// 先导入教师，开课文件中的领域可以复用教师文件中创建的领域
	if importProfessorsFile != "" {
		f, err := os.Open(importProfessorsFile)
		if err != nil {
			return fmt.Errorf("无法打开教师文件: %w", err)
		}
		defer f.Close()

		records, err := seed.ParseProfessors(f)
		if err != nil {
			return fmt.Errorf("无法解析教师文件: %w", err)
		}
		seeder.ImportProfessors(records)
	}

	if importOfferingsFile != "" {
		f, err := os.Open(importOfferingsFile)
		if err != nil {
			return fmt.Errorf("无法打开开课文件: %w", err)
		}
		defer f.Close()

		records, err := seed.ParseOfferings(f)
		if err != nil {
			return fmt.Errorf("无法解析开课文件: %w", err)
		}
		seeder.ImportOfferings(records)
	}

	return nil
}
