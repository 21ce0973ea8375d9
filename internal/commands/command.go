package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeShow   Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a quick-add. At is the optional start time clause ("at
// HH:MM"); For the optional duration clause ("for 45m"). HasAt distinguishes
// an absent clause from midnight.
type AddArgs struct {
	Title string
	At    time.Duration
	HasAt bool
	For   time.Duration
}

type DoneArgs struct {
	Index int
}

type DeleteArgs struct {
	Index int
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Delete *DeleteArgs
	Show   *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd consumes trailing "for <dur>" and "at HH:MM" clauses from the
// right; everything left of them is the title, spaces and all.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := AddArgs{}

	if len(args) >= 2 && strings.EqualFold(args[len(args)-2], "for") {
		dur, err := time.ParseDuration(args[len(args)-1])
		if err != nil || dur <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", args[len(args)-1])}
		}
		out.For = dur
		args = args[:len(args)-2]
	}
	if len(args) >= 2 && strings.EqualFold(args[len(args)-2], "at") {
		at, err := parseClock(args[len(args)-1])
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		out.At = at
		out.HasAt = true
		args = args[:len(args)-2]
	}

	out.Title = strings.TrimSpace(strings.Join(args, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	index, err := parseIndex("done", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Index: index}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	index, err := parseIndex("delete", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Index: index}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires day or week"}
	}
	subject := strings.ToLower(args[0])
	if subject != "day" && subject != "week" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("show accepts day or week, got %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseIndex(name string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires an item number"}
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid item number: %s", args[0])}
	}
	return index, nil
}

// parseClock parses HH:MM into an offset from midnight.
func parseClock(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}
