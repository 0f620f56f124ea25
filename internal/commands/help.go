package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show comprehensive help for liftlog",
		Long:  `Display a cheat sheet of every liftlog command, or the full help of one command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				showCustomHelp(cmd.OutOrStdout())
				return nil
			}
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == cmd.Root() {
				return fmt.Errorf("unknown help topic %q", args)
			}
			return target.Help()
		},
	}
}

func showCustomHelp(out io.Writer) {
	fmt.Fprint(out, `
██╗     ██╗███████╗████████╗██╗      ██████╗  ██████╗
██║     ██║██╔════╝╚══██╔══╝██║     ██╔═══██╗██╔════╝
██║     ██║█████╗     ██║   ██║     ██║   ██║██║  ███╗
██║     ██║██╔══╝     ██║   ██║     ██║   ██║██║   ██║
███████╗██║██║        ██║   ███████╗╚██████╔╝╚██████╔╝
╚══════╝╚═╝╚═╝        ╚═╝   ╚══════╝ ╚═════╝  ╚═════╝

liftlog - terminal workout log

COMMANDS:

  exercise add <name>         Add an exercise (--notes)
  exercise edit <ref>         Rename or change notes (--name, --notes)
  exercise rm <ref>           Delete; templates lose its rows (-y)
  exercise ls                 List exercises

  template add <name>         Create a template
    -r, --row                 Row as exercise:sets:reps (repeatable)
    --create                  Create missing exercises
  template edit <ref>         --name, --row, --add-row, --remove-row
  template rm <ref>           Delete with all its sessions (-y)
  template ls | show <ref>    List templates, show one

  session log [template]      Log a session in the form
    --date                    today, yesterday, YYYY-MM-DD, dd/mm/yyyy, "3 days ago"
    --set                     "Exercise=5x100 5x100" (repeatable)
    -c, --comment             Session comment
    --draft                   Keep as draft (with --no-ui)
    --no-ui                   Save without the form

    Form keys:
      tab/↓         Next field
      shift+tab/↑   Previous field
      ctrl+s        Save draft
      ctrl+f        Finish session
      esc           Leave (asks to keep a draft)

  session ls                  Browse history with a detail pane
    -t, --template            Only one template
    -q, --search              Match template, date or comment
    --drafts                  Only drafts
    --no-ui                   Simple text output
    --json                    JSON output

    Quick actions:
      ↑/↓           Navigate sessions
      ←/→           Change page
      /             Search
      enter/e       Edit selected session
      d             Delete selected session
      esc/q         Quit

  session show <id>           Show every set of a session
  session edit <id>           Edit in the form (--no-ui with --set, --comment, --date)
  session finish <id>         Mark a draft as finished
  session rm <id>             Delete a session (-y)

  progress [template]         Volume and top-set sparklines
    -e, --exercise            Exercise to chart
    -n, --sessions            Sessions to include
  progress week               Volume per template and weekday
    --offset                  Weeks back

  export json | csv           Write a backup or a CSV of every set (-o file, -o -)
  import <file>               Replace all data from a JSON backup (-y)
  reset                       Delete all data (-y)
  version                     Print version
  help [command]              Show this help

Ids can be shortened to any unique prefix. Exercises and templates can also
be named.

`)
}
