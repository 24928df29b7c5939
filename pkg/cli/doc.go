/*
Package cli provides command-line helpers for the strictvalue command.

Output Formatting:

Results are printed as text or JSON. Types implementing TextWriter render
their own text form; JSON output is always indented:

	format, err := cli.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, summary); err != nil {
		return err
	}

Errors and Exit Codes:

Commands return CommandError or ConfigError for failures and ExitError when
only the exit status matters, such as a lint run with error findings.
ExitCode maps the returned error to 0, 1 or 2.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
