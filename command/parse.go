package command

import (
	"strconv"
	"time"

	"github.com/hcnet/respd/resp"
)

// Parse interprets frame as a client command. frame must be a non-null
// Array whose first element names the command; per spec.md §4.5 the name
// is matched case-insensitively against PING, ECHO, GET and SET.
func Parse(frame resp.Frame) (Command, error) {
	items, ok := frame.Items()
	if !ok {
		return Command{}, newParseError(NotAnArray, "expected a non-null array, got %s", frame.Kind())
	}
	if len(items) == 0 {
		return Command{}, newParseError(MissingArgument, "empty command array")
	}

	name, ok := items[0].Bytes()
	if !ok {
		return Command{}, newParseError(WrongType, "command name must be a string or bulk string, got %s", items[0].Kind())
	}
	args := items[1:]

	switch {
	case equalFold(name, "ping"):
		return parsePing(args)
	case equalFold(name, "echo"):
		return parseEcho(args)
	case equalFold(name, "get"):
		return parseGet(args)
	case equalFold(name, "set"):
		return parseSet(args)
	default:
		return Command{}, newParseError(UnknownCommand, "unknown command %q", name)
	}
}

func parsePing(args []resp.Frame) (Command, error) {
	if len(args) != 0 {
		return Command{}, newParseError(UnexpectedArgument, "PING takes no arguments")
	}
	return Command{Kind: Ping}, nil
}

func parseEcho(args []resp.Frame) (Command, error) {
	msg, err := requireBytesArg(args, 0, "ECHO message")
	if err != nil {
		return Command{}, err
	}
	if len(args) != 1 {
		return Command{}, newParseError(UnexpectedArgument, "ECHO takes exactly one argument")
	}
	return Command{Kind: Echo, Message: msg}, nil
}

func parseGet(args []resp.Frame) (Command, error) {
	key, err := requireBytesArg(args, 0, "GET key")
	if err != nil {
		return Command{}, err
	}
	if len(args) != 1 {
		return Command{}, newParseError(UnexpectedArgument, "GET takes exactly one argument")
	}
	return Command{Kind: Get, Key: key}, nil
}

func parseSet(args []resp.Frame) (Command, error) {
	key, err := requireBytesArg(args, 0, "SET key")
	if err != nil {
		return Command{}, err
	}
	value, err := requireBytesArg(args, 1, "SET value")
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Kind: Set, Key: key, Value: value}

	switch len(args) {
	case 2:
		return cmd, nil
	case 4:
		opt, err := requireBytesArg(args, 2, "SET option")
		if err != nil {
			return Command{}, err
		}
		amount, err := requireBytesArg(args, 3, "SET option amount")
		if err != nil {
			return Command{}, err
		}
		d, err := parseExpiryOption(opt, amount)
		if err != nil {
			return Command{}, err
		}
		cmd.ExpiresAt = time.Now().Add(d)
		cmd.HasExpiry = true
		return cmd, nil
	default:
		if len(args) < 2 {
			return Command{}, newParseError(MissingArgument, "SET requires key and value")
		}
		return Command{}, newParseError(UnexpectedArgument, "SET takes key, value and an optional EX/PX option")
	}
}

func parseExpiryOption(opt, amount []byte) (time.Duration, error) {
	n, err := strconv.ParseInt(string(amount), 10, 64)
	if err != nil || n < 0 {
		return 0, newParseError(UnexpectedArgument, "expiry amount must be a non-negative integer, got %q", amount)
	}
	switch {
	case equalFold(opt, "ex"):
		return time.Duration(n) * time.Second, nil
	case equalFold(opt, "px"):
		return time.Duration(n) * time.Millisecond, nil
	default:
		return 0, newParseError(UnexpectedArgument, "unknown SET option %q", opt)
	}
}

func requireBytesArg(args []resp.Frame, i int, what string) ([]byte, error) {
	if i >= len(args) {
		return nil, newParseError(MissingArgument, "missing %s", what)
	}
	b, ok := args[i].Bytes()
	if !ok {
		return nil, newParseError(WrongType, "%s must be a string or bulk string, got %s", what, args[i].Kind())
	}
	return b, nil
}
