// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// guitarFieldFlags are shared by guitar add and guitar edit. Numbers are taken as text and coerced,
// so a blank value means "not given".
func guitarFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "brand", Aliases: []string{"b"}, Usage: "Manufacturer, e.g. Fender"},
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Model name, e.g. Stratocaster"},
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "electric, acoustic, classical, bass, electric-acoustic, twelve-string, resonator or other"},
		&cli.StringFlag{Name: "year", Aliases: []string{"y"}, Usage: "Year of manufacture"},
		&cli.StringFlag{Name: "serial", Usage: "Serial number"},
		&cli.StringFlag{Name: "purchase-date", Usage: "Purchase date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "purchase-price", Usage: "Price paid"},
		&cli.StringFlag{Name: "current-value", Usage: "Estimated current value"},
		&cli.StringFlag{Name: "color", Usage: "Finish or color"},
		&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
		&cli.StringSliceFlag{Name: "photo", Usage: "Photo path or URL (repeatable)"},
	}
}

func serviceFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Service date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "string-change, setup, repair, cleaning, modification, inspection or other"},
		&cli.StringFlag{Name: "description", Usage: "What was done"},
		&cli.StringFlag{Name: "cost", Usage: "Amount paid"},
		&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output JSON"}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"}
}

// setupCommand creates the configuration file and migrates the record store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, then initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rollback", Usage: "Roll back the most recent migration instead"},
		},
		Action: r.Setup,
	}
}

// guitarCommand handles guitar operations
func guitarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "guitar",
		Aliases: []string{"g"},
		Usage:   "Manage guitars in the collection",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List guitars, most recently updated first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Only list guitars of this type"},
					jsonFlag(),
				},
				Action: r.GuitarList,
			},
			{
				Name:      "search",
				Usage:     "Search brand, model, serial number and notes",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.GuitarSearch,
			},
			{
				Name:      "show",
				Usage:     "Show a guitar and its service history",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "Render as Markdown"},
				},
				Action: r.GuitarShow,
			},
			{
				Name:   "add",
				Usage:  "Add a guitar",
				Flags:  guitarFieldFlags(),
				Action: r.GuitarAdd,
			},
			{
				Name:      "edit",
				Usage:     "Change only the fields given",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(guitarFieldFlags(),
					&cli.StringSliceFlag{Name: "clear", Usage: "Clear an optional field, e.g. --clear notes (repeatable)"},
				),
				Action: r.GuitarEdit,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete a guitar and its service records",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{yesFlag()},
				Action:    r.GuitarRemove,
			},
		},
	}
}

// serviceCommand handles service record operations
func serviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "service",
		Aliases: []string{"s"},
		Usage:   "Manage service records",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Log maintenance on a guitar",
				Arguments: []cli.Argument{&cli.StringArg{Name: "guitar-id"}},
				Flags:     serviceFieldFlags(),
				Action:    r.ServiceAdd,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List service records, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "guitar", Aliases: []string{"g"}, Usage: "Only list records of this guitar ID"},
					jsonFlag(),
				},
				Action: r.ServiceList,
			},
			{
				Name:      "edit",
				Usage:     "Change only the fields given",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(serviceFieldFlags(),
					&cli.StringFlag{Name: "guitar", Aliases: []string{"g"}, Usage: "Move the record to another guitar ID"},
					&cli.StringSliceFlag{Name: "clear", Usage: "Clear cost or notes (repeatable)"},
				),
				Action: r.ServiceEdit,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete a service record",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.ServiceRemove,
			},
		},
	}
}

// exportCommand writes a snapshot of the collection
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection with service histories",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json, yaml, csv, markdown or text", Value: "json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (\"-\" for stdout)"},
		},
		Action: r.Export,
	}
}

// importCommand loads a snapshot written by export
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import guitars and service records from a JSON or YAML export",
		Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json or yaml (default: from the file extension)"},
			yesFlag(),
		},
		Action: r.Import,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the collection as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Interface to listen on (default: from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default: from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the guitar list in a browser once listening"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for browsing the collection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse the collection in an interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Where to write logs while the UI is running", Value: "./tmp/fretlog-tui.log"},
		},
		Action: r.TUI,
	}
}

// mcpCommand starts the Model Context Protocol server.
func mcpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Start an MCP server on stdio for AI agent integration",
		Action: r.MCP,
	}
}
