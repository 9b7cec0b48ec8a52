// submodule cmd contains command definitions
package main

import (
	"cmp"
	"time"

	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   cmp.Or(r.configPath, "config.toml"),
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// shiftCommand handles the shift lifecycle.
func shiftCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shift",
		Aliases: []string{"s"},
		Usage:   "Start, watch and end shifts",
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start a shift on the given platforms",
				ArgsUsage: "<platform> [platform...]",
				Action:    r.ShiftStart,
			},
			{
				Name:   "status",
				Usage:  "Show the active shift",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ShiftStatus,
			},
			{
				Name:  "watch",
				Usage: "Show a running clock until the shift ends or Ctrl+C",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Refresh interval",
						Value: time.Second,
					},
				},
				Action: r.ShiftWatch,
			},
			{
				Name:      "end",
				Usage:     "End the active shift with the tokens earned per platform",
				ArgsUsage: "<platform>=<tokens> [...]  e.g. Chaturbate=1300 Cum4K=150",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ShiftEnd,
			},
		},
	}
}

// historyCommand lists and exports completed shifts.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Completed shifts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List completed shifts, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of shifts to show (0 for all)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (txt, md, csv, json, yaml)",
						Value:   "txt",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Write completed shifts to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (txt, md, csv, json, yaml)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: history.<format>)",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// statsCommand prints the operator dashboard.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show totals over completed shifts",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Stats,
	}
}

// adminCommand holds the administrator tools.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Studio administration (admin role)",
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "Print the studio report",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AdminReport,
			},
			{
				Name:   "share",
				Usage:  "Send the studio report to the messaging host",
				Action: r.AdminShare,
			},
			{
				Name:   "db-check",
				Usage:  "Run a write/query/update/delete round trip against the remote object store",
				Action: r.AdminDBCheck,
			},
		},
	}
}

// tasksCommand manages the content plan.
func tasksCommand(r *Runner) *cli.Command {
	editFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day of month (1-31)"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Task type (video, photo, social, admin)"},
			&cli.StringFlag{Name: "title", Usage: "Task title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"desc"}, Usage: "Task description"},
		}
	}

	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"plan"},
		Usage:   "Content plan",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Only tasks for this day"},
					jsonFlag(),
				},
				Action: r.TasksList,
			},
			{
				Name:   "add",
				Usage:  "Add a task",
				Flags:  editFlags(),
				Action: r.TasksAdd,
			},
			{
				Name:      "done",
				Usage:     "Toggle a task's completion",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.TasksDone,
			},
			{
				Name:      "edit",
				Usage:     "Change a task; only the given flags are applied",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     editFlags(),
				Action:    r.TasksEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.TasksRemove,
			},
		},
	}
}

// scheduleCommand manages the working schedule.
func scheduleCommand(r *Runner) *cli.Command {
	dayFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day of month (1-31)", Required: true}
	}

	return &cli.Command{
		Name:  "schedule",
		Usage: "Working schedule",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the schedule",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "day", Aliases: []string{"d"}, Usage: "Only this day"},
					jsonFlag(),
				},
				Action: r.ScheduleShow,
			},
			{
				Name:  "set",
				Usage: "Set a day as working or off",
				Flags: []cli.Flag{
					dayFlag(),
					&cli.BoolFlag{Name: "off", Usage: "Mark the day as off"},
					&cli.StringFlag{Name: "start", Usage: "Start time (default 18:00)"},
					&cli.StringFlag{Name: "end", Usage: "End time (default 02:00)"},
					&cli.StringFlag{Name: "note", Usage: "Note for the day"},
				},
				Action: r.ScheduleSet,
			},
			{
				Name:   "rm",
				Usage:  "Clear a day",
				Flags:  []cli.Flag{dayFlag()},
				Action: r.ScheduleRemove,
			},
		},
	}
}

// guidesCommand manages the reference guides.
func guidesCommand(r *Runner) *cli.Command {
	editFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Guide title"},
			&cli.StringFlag{Name: "content", Usage: "Guide content"},
			&cli.StringFlag{Name: "level", Usage: "Novice, Advanced or Technical"},
		}
	}

	return &cli.Command{
		Name:  "guides",
		Usage: "Reference guides",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List guides",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.GuidesList,
			},
			{
				Name:   "add",
				Usage:  "Add a guide",
				Flags:  editFlags(),
				Action: r.GuidesAdd,
			},
			{
				Name:      "edit",
				Usage:     "Change a guide; only the given flags are applied",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     editFlags(),
				Action:    r.GuidesEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a guide",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.GuidesRemove,
			},
		},
	}
}

// profileCommand shows the operator and manages the role and saved logins.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Operator profile",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current operator",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ProfileShow,
			},
			{
				Name:   "role",
				Usage:  "Switch between operator and admin",
				Action: r.ProfileRole,
			},
			{
				Name:  "creds",
				Usage: "Saved platform logins",
				Commands: []*cli.Command{
					{
						Name:  "set",
						Usage: "Save a login for a platform",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Platform name", Required: true},
							&cli.StringFlag{Name: "login", Aliases: []string{"l"}, Usage: "Login"},
							&cli.StringFlag{Name: "password", Usage: "Password"},
						},
						Action: r.CredentialsSet,
					},
					{
						Name:  "show",
						Usage: "List saved logins",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "reveal", Usage: "Print passwords"},
						},
						Action: r.CredentialsShow,
					},
				},
			},
		},
	}
}

// serveCommand runs the HTTP API for the mini app.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from [server] config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive shift tracker",
		Action:  r.TUI,
	}
}
