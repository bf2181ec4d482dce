package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Provision restaurant tables",
	}
	cmd.AddCommand(newTablesAddCmd())
	cmd.AddCommand(newTablesListCmd())
	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var (
		number   int
		capacity int
		location string
		status   string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := models.Table{
				TableNumber: number,
				Capacity:    capacity,
				Location:    models.TableLocation(strings.ToUpper(location)),
				Status:      models.TableStatus(strings.ToUpper(status)),
			}
			if t.TableNumber < 1 {
				return fmt.Errorf("invalid --number %d", number)
			}
			if t.Capacity < 1 {
				return fmt.Errorf("invalid --capacity %d", capacity)
			}
			if !t.Location.Valid() {
				return fmt.Errorf("invalid --location %q (want INDOOR, OUTDOOR, PATIO or BAR)", location)
			}
			if !t.Status.Valid() {
				return fmt.Errorf("invalid --status %q", status)
			}

			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.ValidateSchema(db); err != nil {
				return err
			}
			if err := database.NewGormStore(db).CreateTable(context.Background(), &t); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created table id=%d number=%d capacity=%d location=%s\n",
				t.ID, t.TableNumber, t.Capacity, t.Location)
			return nil
		},
	}

	c.Flags().IntVar(&number, "number", 0, "table number shown to guests")
	c.Flags().IntVar(&capacity, "capacity", 0, "seats")
	c.Flags().StringVar(&location, "location", string(models.LocationIndoor), "INDOOR, OUTDOOR, PATIO or BAR")
	c.Flags().StringVar(&status, "status", string(models.TableAvailable), "initial status")
	_ = c.MarkFlagRequired("number")
	_ = c.MarkFlagRequired("capacity")
	return c
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			tables, err := database.NewGormStore(db).ListTables(context.Background())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintf(cmd.OutOrStdout(), "id=%d number=%d capacity=%d location=%s status=%s\n",
					t.ID, t.TableNumber, t.Capacity, t.Location, t.Status)
			}
			return nil
		},
	}
}
