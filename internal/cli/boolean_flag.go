package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName              = "bool"
	booleanFlagTrueLiteral           = "true"
	booleanFlagAcceptedValuesListing = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueFormat    = "invalid boolean value %q for --%s; accepted values: %s"
	flagPrefix                       = "--"
	flagValueSeparator               = "="
	argumentTerminator               = "--"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseBooleanLiteral accepts the literals above case-insensitively. An empty
// input means true.
func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := booleanFlagLiterals[normalized]
	return parsed, known
}

// booleanFlagValue is a pflag.Value for switches like --copy and --summary.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	parsed, known := parseBooleanLiteral(input)
	if !known || value.target == nil {
		return fmt.Errorf(booleanFlagInvalidValueFormat, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return booleanFlagTrueLiteral
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments rewrites "--flag value" into "--flag=value"
// when flag is a boolean flag anywhere in the command tree and value is a
// boolean literal. Other arguments pass through unchanged.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := booleanFlagNames(command)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if !strings.HasPrefix(currentArgument, flagPrefix) || strings.Contains(currentArgument, flagValueSeparator) || index+1 >= len(arguments) {
			normalized = append(normalized, currentArgument)
			continue
		}
		flagName := strings.TrimPrefix(currentArgument, flagPrefix)
		nextArgument := arguments[index+1]
		if _, isBoolean := booleanFlags[flagName]; isBoolean && nextArgument != "" && !strings.HasPrefix(nextArgument, "-") {
			if _, known := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; known {
				normalized = append(normalized, currentArgument+flagValueSeparator+nextArgument)
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func booleanFlagNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	var visit func(current *cobra.Command)
	visit = func(current *cobra.Command) {
		for _, flagSet := range []*pflag.FlagSet{current.PersistentFlags(), current.Flags()} {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
					names[flag.Name] = struct{}{}
				}
			})
		}
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	visit(command)
	return names
}
