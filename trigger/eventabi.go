package trigger

import (
	"encoding/json"
	"strings"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// ParseEventInterface returns the first event declared in definition.
// definition is either a JSON ABI (array or single fragment) or human readable
// lines of the form `event Name(type [indexed] [name], ...) [anonymous]`.
func ParseEventInterface(definition string) (*abi.Event, error) {
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return nil, errors.Wrap(zkerrors.ErrInvalidTrigger, "event interface is empty")
	}

	if strings.HasPrefix(definition, "[") || strings.HasPrefix(definition, "{") {
		return parseJSONEvent(definition)
	}

	for _, line := range strings.FieldsFunc(definition, func(r rune) bool { return r == '\n' || r == ';' }) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event ") {
			return parseHumanReadableEvent(line)
		}
	}

	return nil, errors.Wrap(zkerrors.ErrInvalidTrigger, "no event declaration found")
}

func parseJSONEvent(definition string) (*abi.Event, error) {
	if strings.HasPrefix(definition, "{") {
		definition = "[" + definition + "]"
	}

	var fragments []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(definition), &fragments); err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "invalid ABI JSON: %v", err)
	}

	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "invalid ABI: %v", err)
	}

	for _, fragment := range fragments {
		if fragment.Type != "event" {
			continue
		}
		if event, ok := parsed.Events[fragment.Name]; ok {
			return &event, nil
		}
	}

	return nil, errors.Wrap(zkerrors.ErrInvalidTrigger, "ABI declares no event")
}

func parseHumanReadableEvent(line string) (*abi.Event, error) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "event "))

	open := strings.Index(body, "(")
	closing := strings.LastIndex(body, ")")
	if open <= 0 || closing < open {
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "malformed event declaration %q", line)
	}

	name := strings.TrimSpace(body[:open])
	if !isIdentifier(name) {
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "invalid event name %q", name)
	}

	anonymous := false
	switch suffix := strings.TrimSpace(body[closing+1:]); suffix {
	case "":
	case "anonymous":
		anonymous = true
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidTrigger, "unexpected %q after event parameters", suffix)
	}

	var inputs abi.Arguments
	params := strings.TrimSpace(body[open+1 : closing])
	if params != "" {
		for _, param := range strings.Split(params, ",") {
			arg, err := parseEventParam(param)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, arg)
		}
	}

	event := abi.NewEvent(name, name, anonymous, inputs)
	return &event, nil
}

func parseEventParam(param string) (abi.Argument, error) {
	fields := strings.Fields(param)
	if len(fields) == 0 {
		return abi.Argument{}, errors.Wrap(zkerrors.ErrInvalidTrigger, "empty event parameter")
	}

	typeName := fields[0]
	if strings.ContainsAny(typeName, "()") {
		return abi.Argument{}, errors.Wrapf(zkerrors.ErrInvalidTrigger, "tuple parameter %q requires a JSON ABI", param)
	}

	switch {
	case typeName == "uint" || strings.HasPrefix(typeName, "uint["):
		typeName = "uint256" + strings.TrimPrefix(typeName, "uint")
	case typeName == "int" || strings.HasPrefix(typeName, "int["):
		typeName = "int256" + strings.TrimPrefix(typeName, "int")
	}

	typ, err := abi.NewType(typeName, "", nil)
	if err != nil {
		return abi.Argument{}, errors.Wrapf(zkerrors.ErrInvalidTrigger, "unsupported type %q: %v", fields[0], err)
	}

	arg := abi.Argument{Type: typ}
	rest := fields[1:]
	if len(rest) > 0 && rest[0] == "indexed" {
		arg.Indexed = true
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
	case 1:
		if !isIdentifier(rest[0]) {
			return abi.Argument{}, errors.Wrapf(zkerrors.ErrInvalidTrigger, "invalid parameter name %q", rest[0])
		}
		arg.Name = rest[0]
	default:
		return abi.Argument{}, errors.Wrapf(zkerrors.ErrInvalidTrigger, "malformed event parameter %q", param)
	}

	return arg, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// decodeEventLog decodes the indexed and non-indexed arguments of log.
func decodeEventLog(event *abi.Event, log ethtypes.Log) (map[string]interface{}, error) {
	topics := log.Topics
	if !event.Anonymous {
		if len(topics) == 0 || topics[0] != event.ID {
			return nil, errors.Wrap(zkerrors.ErrDecodeFailure, "log signature does not match event")
		}
		topics = topics[1:]
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(topics) != len(indexed) {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "expected %d indexed topics, got %d", len(indexed), len(topics))
	}

	args := make(map[string]interface{})
	if err := abi.ParseTopicsIntoMap(args, indexed, topics); err != nil {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "indexed arguments: %v", err)
	}
	if err := event.Inputs.NonIndexed().UnpackIntoMap(args, log.Data); err != nil {
		return nil, errors.Wrapf(zkerrors.ErrDecodeFailure, "data arguments: %v", err)
	}

	for name, value := range args {
		args[name] = utils.NormalizeABIValue(value)
	}
	return args, nil
}
