package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/repository"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := opts.openDB()
			if err != nil {
				return err
			}

			if reset {
				if err := dao.ResetTables(gormDB); err != nil {
					return fmt.Errorf("dao.ResetTables -> %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema dropped and recreated")
				return nil
			}

			if err := dao.InitTables(gormDB); err != nil {
				return fmt.Errorf("dao.InitTables -> %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every table first")

	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo games, residents and events",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := opts.openDB()
			if err != nil {
				return err
			}
			if err := dao.InitTables(gormDB); err != nil {
				return fmt.Errorf("dao.InitTables -> %w", err)
			}

			hash, err := service.HashPassword(password)
			if err != nil {
				return fmt.Errorf("service.HashPassword -> %w", err)
			}

			seeded, err := dao.Seed(cmd.Context(), gormDB, hash, time.Now())
			if err != nil {
				return fmt.Errorf("dao.Seed -> %w", err)
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has games, nothing seeded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo data seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "boardy123", "password of every seeded account")

	return cmd
}

func newGamesCmd(opts *rootOptions) *cobra.Command {
	f := domain.DefaultGameFilter()
	var page, limit int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the catalog with the same filters as the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := opts.openDB()
			if err != nil {
				return err
			}

			catalog := service.NewCatalogService(repository.NewGameRepository(dao.NewGameDAO(gormDB)), nil, nil)
			result, err := catalog.ListGames(cmd.Context(), f, page, limit)
			if err != nil {
				return err
			}

			return printGames(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.Category, "category", f.Category, "category, or all")
	flags.IntVar(&f.Players, "players", f.Players, "group size the game must seat")
	flags.IntVar(&f.Duration, "duration", f.Duration, "longest play time in minutes")
	flags.IntVar(&f.Complexity, "complexity", f.Complexity, "highest complexity, 0 for any")
	flags.StringVar(&f.Status, "status", f.Status, "status, or all")
	flags.IntVar(&page, "page", 1, "page number")
	flags.IntVar(&limit, "limit", 20, "games per page")

	return cmd
}

func printGames(w io.Writer, result repository.GamePage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPLAYERS\tMINUTES\tCOMPLEXITY\tSTATUS")
	for _, g := range result.Games {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%d\t%d\t%s\n",
			g.ID, g.Name, g.Category, g.MinPlayers, g.MaxPlayers, g.DurationMinutes, g.Complexity, g.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "page %d, %d of %d games\n", result.Page, len(result.Games), result.Total)
	return err
}

var errEmptyPassword = errors.New("password must not be empty")

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			hash, err := service.HashPassword(password)
			if err != nil {
				return fmt.Errorf("service.HashPassword -> %w", err)
			}

			gormDB, err := opts.openDB()
			if err != nil {
				return err
			}

			user, err := dao.NewUserDAO(gormDB).Insert(cmd.Context(), dao.User{
				Email:      strings.ToLower(strings.TrimSpace(email)),
				Password:   hash,
				Name:       name,
				RoomNumber: "Office",
				IsVerified: true,
				IsAdmin:    true,
			})
			if err != nil {
				return fmt.Errorf("dao.Insert -> %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %d\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "Hostel Admin", "display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword masks input on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()

	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("term.ReadPassword -> %w", err)
		}
		password = string(b)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password -> %w", err)
		}
		password = line
	}

	password = strings.TrimSpace(password)
	if password == "" {
		return "", errEmptyPassword
	}
	return password, nil
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(service.NewVersionService(opts.environment()).Version())
		},
	}
}
