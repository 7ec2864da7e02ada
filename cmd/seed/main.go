package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/config"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/repository"
)

var (
	cfg    *config.Config
	dbpool *sql.DB
	repo   *repository.Repository
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "向数据库中导入教师、课程和开课数据",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		cfg, err = config.LoadConfig()
		if err != nil {
			slog.Error("无法读取配置文件", "error", err)
			return err
		}

		dbpool, err = repository.OpenDB(cmd.Context(), cfg)
		if err != nil {
			slog.Error("无法连接到数据库", "error", err)
			return err
		}

		repo = repository.NewRepository(cfg, dbpool)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if dbpool != nil {
			_ = dbpool.Close()
		}
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("执行失败", "error", err)
		os.Exit(1)
	}
}
