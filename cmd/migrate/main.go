package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/logger"
)

const usage = "usage: migrate [up|down [N]|status|ping]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.Environment)
	if cfg.StoreDriver != database.DriverPostgres {
		log.Fatalf("マイグレーションは postgres ストアでのみ実行できます (STORE_DRIVER=%s)", cfg.StoreDriver)
	}

	if err := runCommand(cfg.DatabaseURL, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
}

func runCommand(databaseURL, command string, args []string) error {
	switch command {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		version, dirty, applied, err := database.MigrationStatus(databaseURL)
		if err != nil {
			return err
		}
		if !applied {
			fmt.Println("No migrations applied")
			return nil
		}
		fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)
		return nil
	case "ping":
		return ping(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s\n%s", command, usage)
	}
}

// ping はデータベースへの接続を確認し、サーバーのバージョンを表示します。
func ping(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, err := database.NewDatabaseService(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer svc.Close()

	version, err := svc.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Println("成功: データベースに正常に接続し、Pingが成功しました！")
	fmt.Printf("データベースバージョン: %s\n", version)
	return nil
}
