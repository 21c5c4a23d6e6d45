package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/app"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/profile"
	"github.com/dvmonroy/amora/internal/status"
	"github.com/dvmonroy/amora/internal/tui"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	// Local .env is optional; missing file is fine.
	_ = godotenv.Load()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var (
		core    *app.App
		b       *bus.Bus
		machine *status.Machine
		logger  *zap.Logger
	)

	fxApp := fx.New(
		app.Module(app.Params{Profile: profileName, Console: false}),
		fx.Populate(&core, &b, &machine, &logger),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := fxApp.Start(startCtx); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cancel()

	ui := tui.NewApp(core, b, machine, profileName, logger)
	runErr := ui.Run()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
