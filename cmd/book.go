package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/app"
	"github.com/kilianp07/chargeplan/config"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/infra/logger"
)

var (
	bookUserID    string
	bookStationID string
	bookChargerID string
	bookDate      string
	bookStart     string
	bookHours     float64
	bookEnergy    float64
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Commit a single booking from the command line",
	RunE:  bookOnce,
}

func init() {
	bookCmd.Flags().StringVar(&bookUserID, "user", "cli", "user identifier")
	bookCmd.Flags().StringVar(&bookStationID, "station", "", "station identifier")
	bookCmd.Flags().StringVar(&bookChargerID, "charger", "", "charger identifier")
	bookCmd.Flags().StringVar(&bookDate, "date", time.Now().Format("2006-01-02"), "booking date (YYYY-MM-DD)")
	bookCmd.Flags().StringVar(&bookStart, "start", "09:00", "start time (HH:MM)")
	bookCmd.Flags().Float64Var(&bookHours, "hours", 1, "duration in hours")
	bookCmd.Flags().Float64Var(&bookEnergy, "energy", 10, "energy to reserve in kWh")
	rootCmd.AddCommand(bookCmd)
}

func bookOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("book-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	date, err := time.Parse("2006-01-02", bookDate)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	start, err := model.ParseClock(bookStart)
	if err != nil {
		return err
	}
	window, err := model.NewWindow(start, bookHours)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	b, err := svc.Committer.Commit(ctx, model.BookingRequest{
		UserID:    bookUserID,
		StationID: bookStationID,
		ChargerID: bookChargerID,
		Date:      date,
		Window:    window,
		EnergyKWh: bookEnergy,
	})
	if err != nil {
		return err
	}
	logg.Infof("booking %s confirmed for %.2f kWh at %.2f", b.ID, b.EnergyKWh, b.Price)
	return nil
}
