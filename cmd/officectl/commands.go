package main

import (
	"fmt"
	"strconv"

	"github.com/npezzotti/go-office/internal/types"
	"github.com/spf13/cobra"
)

func parseId(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func membersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List the office members, connected ones first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.state.GetMembers(cmd.Context()); err != nil {
				return err
			}
			return printJson(cmd, rt.state.SortedMembersByOnline())
		},
	}
}

func todosCmd() *cobra.Command {
	var userId int
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List todos, open ones first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := rt.sess.CurrentUser().UserId
			if userId == 0 || userId == current {
				if _, err := rt.state.GetTodos(cmd.Context(), current); err != nil {
					return err
				}
				return printJson(cmd, rt.state.SortedTodosByDone())
			}

			todos, err := rt.state.GetTodos(cmd.Context(), userId)
			if err != nil {
				return err
			}
			return printJson(cmd, todos)
		},
	}
	cmd.Flags().IntVar(&userId, "user", 0, "preview another member's todos")
	return cmd
}

func todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Create, toggle or delete a todo",
	}

	var day, text string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a todo for the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			todo, err := rt.state.CreateTodo(cmd.Context(), types.TodoParams{Day: day, Text: text})
			if err != nil {
				return err
			}
			return printJson(cmd, todo)
		},
	}
	create.Flags().StringVar(&day, "day", "", "day the todo belongs to, YYYY-MM-DD")
	create.Flags().StringVar(&text, "text", "", "todo text")
	create.MarkFlagRequired("day")
	create.MarkFlagRequired("text")

	toggle := &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a todo between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			return rt.state.ToggleTodoDone(cmd.Context(), id)
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			return rt.state.DeleteTodo(cmd.Context(), id)
		},
	}

	cmd.AddCommand(create, toggle, del)
	return cmd
}

func roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the office rooms; the first one is the lobby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.state.GetRooms(cmd.Context()); err != nil {
				return err
			}
			return printJson(cmd, rt.state.Rooms())
		},
	}
}

func roomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Create, rename or delete a room",
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := rt.state.CreateRoom(cmd.Context(), types.RoomParams{
				RoomName: args[0],
				OfficeId: rt.sess.CurrentUser().OfficeId,
			})
			if err != nil {
				return err
			}
			return printJson(cmd, room)
		},
	}

	edit := &cobra.Command{
		Use:   "edit ID NAME",
		Short: "Rename a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			room, err := rt.state.EditRoom(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJson(cmd, room)
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			return rt.state.DeleteRoom(cmd.Context(), id)
		},
	}

	cmd.AddCommand(create, edit, del)
	return cmd
}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.state.GetNotifications(cmd.Context()); err != nil {
				return err
			}
			return printJson(cmd, rt.state.Notifications())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Dismiss a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			return rt.state.DeleteNotification(cmd.Context(), id)
		},
	})
	return cmd
}

func deptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "depts",
		Short:       "List departments",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{sessionOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			depts, err := rt.state.GetDepts(cmd.Context())
			if err != nil {
				return err
			}
			return printJson(cmd, depts)
		},
	}
}

func jobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "jobs",
		Short:       "List jobs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{sessionOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := rt.state.GetJobs(cmd.Context())
			if err != nil {
				return err
			}
			return printJson(cmd, jobs)
		},
	}
}

func registerCmd() *cobra.Command {
	var form types.OfficeRegistration
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Register a new office",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{sessionOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			office, err := rt.state.RegisterOffice(cmd.Context(), form)
			if err != nil {
				return err
			}
			return printJson(cmd, office)
		},
	}
	cmd.Flags().StringVar(&form.OfficeName, "office-name", "", "office name")
	cmd.Flags().StringVar(&form.Domain, "domain", "", "office email domain")
	cmd.Flags().StringVar(&form.AdminName, "name", "", "administrator name")
	cmd.Flags().StringVar(&form.AdminEmail, "email", "", "administrator email")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "administrator phone")
	cmd.MarkFlagRequired("office-name")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}
