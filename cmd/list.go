package cmd

import (
	"fmt"
	"io"
	"strconv"

	"storymap/diagram"
	"storymap/model"
	"storymap/uid"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List the characters, associations and events of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadChecked(args[0])
			if err != nil {
				return err
			}
			project := model.NewProject(nil, zerolog.Nop())
			if err := project.Load(doc); err != nil {
				return err
			}
			printProject(cmd.OutOrStdout(), project)
			return nil
		},
	}
}

func printProject(w io.Writer, p *model.Project) {
	if p.Metadata.Name != "" {
		fmt.Fprintln(w, Brand.Sprint(p.Metadata.Name))
		fmt.Fprintln(w)
	}

	characters := p.Relationships.Characters()
	associations := p.Relationships.Associations()
	names := make(map[uid.UID]string, len(characters))
	links := make(map[uid.UID]int, len(characters))
	for _, c := range characters {
		names[c.ID] = c.Name
	}
	for _, a := range associations {
		links[a.Start.Character]++
		if a.End.Character != a.Start.Character {
			links[a.End.Character]++
		}
	}

	Heading(w, "Characters", len(characters))
	rows := make([][]string, 0, len(characters))
	for _, c := range characters {
		rows = append(rows, []string{c.Name, point(c.X, c.Y), strconv.Itoa(links[c.ID]), c.Description})
	}
	Table(w, []string{"NAME", "POSITION", "LINKS", "DESCRIPTION"}, rows)
	fmt.Fprintln(w)

	Heading(w, "Associations", len(associations))
	rows = rows[:0]
	for _, a := range associations {
		rows = append(rows, []string{a.Label, endpointName(a.Start, names), endpointName(a.End, names)})
	}
	Table(w, []string{"LABEL", "FROM", "TO"}, rows)
	fmt.Fprintln(w)

	events := p.Timeline.Events()
	Heading(w, "Timeline", len(events))
	rows = rows[:0]
	for i, e := range events {
		rows = append(rows, []string{strconv.Itoa(i + 1), e.Name, e.Description})
	}
	Table(w, []string{"#", "EVENT", "DESCRIPTION"}, rows)
}

func endpointName(ep diagram.Endpoint, names map[uid.UID]string) string {
	if ep.Attached() {
		return names[ep.Character]
	}
	return Warn.Sprint(point(ep.X, ep.Y))
}

func point(x, y float64) string {
	return fmt.Sprintf("(%g, %g)", x, y)
}
