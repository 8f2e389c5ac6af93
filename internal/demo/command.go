package demo

import (
	"fmt"
	"strings"
)

// Command identifies one message type in the stream.
type Command uint8

const (
	SignOn       Command = 1 // startup message, processed as fast as possible
	Packet       Command = 2 // normal network packet
	SyncTick     Command = 3 // sync client clock to demo tick
	ConsoleCmd   Command = 4
	UserCmd      Command = 5
	DataTables   Command = 6
	Stop         Command = 7
	StringTables Command = 8

	LastCommand = StringTables
)

var commandNames = [...]string{
	SignOn:       "signon",
	Packet:       "packet",
	SyncTick:     "synctick",
	ConsoleCmd:   "consolecmd",
	UserCmd:      "usercmd",
	DataTables:   "datatables",
	Stop:         "stop",
	StringTables: "stringtables",
}

// Commands lists every valid command in tag order.
func Commands() []Command {
	out := make([]Command, 0, LastCommand)
	for c := SignOn; c <= LastCommand; c++ {
		out = append(out, c)
	}
	return out
}

func (c Command) Valid() bool {
	return c >= SignOn && c <= LastCommand
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("command(%d)", uint8(c))
	}
	return commandNames[c]
}

// HasFrame reports whether the command carries a Frame envelope.
func (c Command) HasFrame() bool {
	return c == SignOn || c == Packet
}

// LengthPrefixed reports whether the command carries an i32 length before its payload.
func (c Command) LengthPrefixed() bool {
	switch c {
	case ConsoleCmd, UserCmd, DataTables, StringTables:
		return true
	default:
		return false
	}
}

func ParseCommand(raw string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range Commands() {
		if commandNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, raw)
}
