package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.RXP/internal/config"
	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold an rxp project (rxp.toml, journal dir, .gitignore entry)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist, nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name> <text>...",
		Short: "Start a unit from literal text (/.../ for raw pattern source)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				u, err := w.session.Create(args[0], seedFrom(args[1:]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", u.ID(), u.Name(), u.Current())
				return nil
			})
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <step>...",
		Short: "Append steps to a unit, e.g. occurs:3 atStart",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args[1:])
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(w *workspace) error {
				var u history.Unit
				for i, in := range steps {
					u, err = w.session.Add(args[0], in)
					if err != nil {
						return fmt.Errorf("step %d (%s): %w", i+1, history.Describe(in), err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.Current())
				return nil
			})
		},
	}
}

func undoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <id>",
		Short: "Remove the last step of a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("steps")
			if n < 1 {
				return fmt.Errorf("--steps must be >= 1")
			}
			return withWorkspace(cmd, func(w *workspace) error {
				var u history.Unit
				var err error
				for range n {
					if u, err = w.session.Undo(args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.Current())
				return nil
			})
		},
	}
	cmd.Flags().IntP("steps", "n", 1, "number of steps to remove")
	return cmd
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <index> <step>",
		Short: "Replace the step at index and replay the steps after it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[1], err)
			}
			in, err := history.ParseInstruction(args[2])
			if err != nil {
				return err
			}
			truncate, _ := cmd.Flags().GetBool("truncate")
			return withWorkspace(cmd, func(w *workspace) error {
				before, err := w.session.Find(args[0])
				if err != nil {
					return err
				}
				u, err := w.session.Replace(before.ID(), index, in)
				var stale *history.StaleInstructionError
				if errors.As(err, &stale) {
					if !truncate {
						return errors.New(staleHint(stale))
					}
					u, err = w.session.Truncate(stale.Partial)
					if err == nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "dropped steps %d-%d\n", stale.Index, before.Len()-1)
					}
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.Current())
				return nil
			})
		},
	}
	cmd.Flags().Bool("truncate", false, "when later steps no longer fit, drop them instead of failing")
	return cmd
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Change a unit's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				u, err := w.session.Rename(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", shortID(u.ID()), u.Name())
				return nil
			})
		},
	}
}

func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close a finished unit; its journal entries are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				u, err := w.session.Find(args[0])
				if err != nil {
					return err
				}
				if err := w.session.CloseUnit(u.ID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Closed %s  %s\n", shortID(u.ID()), u.Name())
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return withWorkspace(cmd, func(w *workspace) error {
				var closed []store.UnitSummary
				if all {
					summaries, err := w.session.Journal().Units()
					if err != nil {
						return err
					}
					for _, s := range summaries {
						if s.Closed {
							closed = append(closed, s)
						}
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), formatUnitList(w.session.Units().Units(), closed))
				return nil
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "include closed units")
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a unit's steps, pattern and available operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				flags, err := patternFlags(cmd, w.cfg)
				if err != nil {
					return err
				}
				u, err := w.session.Find(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatUnit(u, flags))
				return nil
			})
		},
	}
	cmd.Flags().String("flags", "", "pattern flags (default: construct.flags)")
	return cmd
}

func logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <id>",
		Short: "Show the journaled edits of a unit, including closed ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				id := args[0]
				if u, err := w.session.Find(id); err == nil {
					id = u.ID()
				}
				events, err := w.session.Journal().UnitLog(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, e := range events {
					fmt.Fprintln(out, formatEvent(e))
				}
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarise the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				s, err := w.session.Journal().Summary()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatStatus(s, w.cfg.Construct.Flags, w.cfg.ReplayPolicy()))
				return nil
			})
		},
	}
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <text> [step...]",
		Short: "Build a pattern without saving it, e.g. build sample occurs:3 atStart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			flags, err := patternFlags(cmd, cfg)
			if err != nil {
				return err
			}
			steps, err := parseSteps(args[1:])
			if err != nil {
				return err
			}
			u, err := buildUnit(newHistory(cfg), args[0], steps)
			if err != nil {
				return err
			}
			if show, _ := cmd.Flags().GetBool("history"); show {
				fmt.Fprint(cmd.OutOrStdout(), formatUnit(u, flags))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.Current().WithFlags(flags))
			return nil
		},
	}
	cmd.Flags().String("flags", "", "pattern flags (default: construct.flags)")
	cmd.Flags().Bool("history", false, "print every step instead of just the pattern")
	return cmd
}

// buildUnit seeds an unsaved unit from text and applies steps in order.
func buildUnit(hs *history.Store, text string, steps []history.Instruction) (history.Unit, error) {
	u, err := hs.NewUnit("build", seedFrom([]string{text}))
	if err != nil {
		return history.Unit{}, err
	}
	for i, in := range steps {
		if u, err = u.AddStep(in); err != nil {
			return history.Unit{}, fmt.Errorf("step %d (%s): %w", i+1, history.Describe(in), err)
		}
	}
	return u, nil
}

func opsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops [id]",
		Short: "List operations, or those a unit can take next",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatOps(rxp.NewOperationSet(rxp.Operations()...)))
				return nil
			}
			return withWorkspace(cmd, func(w *workspace) error {
				u, err := w.session.Find(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatOps(u.Available()))
				return nil
			})
		},
	}
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <id> <text>",
		Short: "Test a unit's pattern against text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				flags, err := patternFlags(cmd, w.cfg)
				if err != nil {
					return err
				}
				u, err := w.session.Find(args[0])
				if err != nil {
					return err
				}
				p := u.Current().WithFlags(flags)
				matches, err := p.Matches(args[1])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatMatches(p, args[1], matches))
				return nil
			})
		},
	}
	cmd.Flags().String("flags", "", "pattern flags (default: construct.flags)")
	return cmd
}

func compactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Rewrite the journal as one entry per open unit, keeping a backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.JournalPath()
			units, err := store.Load(path, newHistory(cfg))
			if err != nil {
				return err
			}
			backup, err := store.Compact(path, units, cfg.Store.Backups)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Compacted %s (%d open units)\n", path, units.Len())
			if backup != "" {
				fmt.Fprintf(out, "Backup    %s\n", backup)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Write units as YAML (all open units by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(w *workspace) error {
				units := w.session.Units().Units()
				if len(args) > 0 {
					units = units[:0:0]
					for _, id := range args {
						u, err := w.session.Find(id)
						if err != nil {
							return err
						}
						units = append(units, u)
					}
				}
				path, _ := cmd.Flags().GetString("output")
				if path == "" || path == "-" {
					return store.Export(cmd.OutOrStdout(), units)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				if err := store.Export(f, units); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "file to write (default: stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Open the units of a YAML export, replaying their steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			return withWorkspace(cmd, func(w *workspace) error {
				units, err := store.Import(f, w.hist)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, u := range units {
					if _, err := w.session.Adopt(u); err != nil {
						return err
					}
					fmt.Fprintf(out, "Imported %s  %s  %s\n", shortID(u.ID()), u.Name(), u.Current())
				}
				if len(units) == 0 {
					fmt.Fprintln(out, "No units in", args[0])
				}
				return nil
			})
		},
	}
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive constructor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			restore, err := redirectLogs(cfg.JournalPath())
			if err != nil {
				return err
			}
			defer restore()
			return withWorkspace(cmd, func(w *workspace) error {
				ctx, cancel := signalContext()
				defer cancel()
				return runTUI(ctx, w)
			})
		},
	}
}
