package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"

	"github.com/shardex-protocol/shardex/api"
	"github.com/shardex-protocol/shardex/config"
	"github.com/shardex-protocol/shardex/x/amm/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
	"github.com/shardex-protocol/shardex/x/ledger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "shardexd",
		Short: "Shardex hybrid liquidity engine daemon",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	cmd.AddCommand(serveCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine with its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger := log.NewLogger(os.Stderr)

			params := types.DefaultParams()
			params.SwapFeeBps = cfg.SwapFeeBps
			params.ProtocolFeeShareBps = cfg.ProtocolFeeShareBps
			params.PriceImpactThresholdBps = cfg.PriceImpactThresholdBps
			params.BreakerCooldown = cfg.BreakerCooldown

			bank := ledger.New()
			engine, err := keeper.NewKeeper(dbm.NewMemDB(), bank, logger, keeper.Config{
				Authority:    cfg.Authority,
				FeeRecipient: cfg.FeeRecipient,
				NativeDenom:  cfg.NativeDenom,
				UtilityDenom: cfg.UtilityDenom,
				Params:       params,
			})
			if err != nil {
				return fmt.Errorf("init engine: %w", err)
			}

			server := api.NewServer(engine, logger, &api.Config{
				Host:            cfg.APIHost,
				Port:            cfg.APIPort,
				RateLimitRPS:    cfg.RateLimitRPS,
				ReadTimeout:     api.DefaultConfig().ReadTimeout,
				WriteTimeout:    api.DefaultConfig().WriteTimeout,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx)
		},
	}
}
