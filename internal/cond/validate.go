package cond

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/condkit/internal/errors"
)

// Severity distinguishes validation errors from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code identifies a validation rule.
type Code string

// Validation codes. CodeConditionNoValue is a warning, all others are errors.
const (
	CodeExpressionConditionless           Code = "EXPRESSION_CONDITIONLESS"
	CodeConditionNoAttributeName          Code = "CONDITION_NO_ATTRIBUTENAME"
	CodeConditionNoOperator               Code = "CONDITION_NO_OPERATOR"
	CodeConditionNoValue                  Code = "CONDITION_NO_VALUE"
	CodeConditionAmountOfValuesNotInRange Code = "CONDITION_AMOUNT_OF_VALUES_NOT_IN_RANGE"
)

// Message is a single finding of a validator, with enough context about the
// offending condition to render a diagnostic.
type Message struct {
	Severity Severity
	Code     Code
	Name     string
	Type     reflect.Type
	Operator Operator
	Negate   bool
	List     bool // the condition holds a value list
	Count    int  // number of values, for range findings
}

// Key returns the message key used to look up a localized text, e.g.
// "validationError_CONDITION_NO_OPERATOR".
func (m Message) Key() string {
	if m.Severity == SeverityWarning {
		return "validationWarning_" + string(m.Code)
	}
	return "validationError_" + string(m.Code)
}

// Text returns the human-readable description of the finding.
func (m Message) Text() string {
	neg := ""
	if m.Negate {
		neg = "!"
	}
	switch m.Code {
	case CodeExpressionConditionless:
		return "expression doesn't have a condition"
	case CodeConditionNoAttributeName:
		return "no attribute name in condition given"
	case CodeConditionNoOperator:
		return fmt.Sprintf("no operator in condition with attribute name '%s' given", m.Name)
	case CodeConditionNoValue:
		if m.List {
			return fmt.Sprintf("no values for condition '%s%s %s' given", neg, m.Name, m.Operator)
		}
		return fmt.Sprintf("no value for condition '%s%s %s' given", neg, m.Name, m.Operator)
	case CodeConditionAmountOfValuesNotInRange:
		arity := m.Operator.Arity()
		return fmt.Sprintf("the amount of values for the arity %s in condition '%s%s %s' isn't valid (%d <= %d <= %s)",
			arity, neg, m.Name, m.Operator, arity.Min, m.Count, arity.MaxString())
	default:
		return string(m.Code)
	}
}

func (m Message) String() string {
	return fmt.Sprintf("%s %s: %s", m.Severity, m.Code, m.Text())
}

func (m Message) asError() *ValidationError {
	return &ValidationError{Code: m.Code, Message: m.Text(), Detail: m}
}

// ValidationError is returned by the fail-fast validator for the first rule
// violation. It unwraps to errors.ErrValidation.
type ValidationError struct {
	Code    Code
	Message string
	Detail  Message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrValidation
}

// Report is the result of a detailed validation, in traversal order.
type Report struct {
	messages []Message
}

// All returns every message.
func (r *Report) All() []Message {
	return slices.Clone(r.messages)
}

// Errors returns the messages of error severity.
func (r *Report) Errors() []Message {
	return r.filter(SeverityError)
}

// Warnings returns the messages of warning severity.
func (r *Report) Warnings() []Message {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(s Severity) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Severity == s {
			out = append(out, m)
		}
	}
	return out
}

func (r *Report) HasMessages() bool { return len(r.messages) > 0 }

func (r *Report) HasErrors() bool { return len(r.Errors()) > 0 }

func (r *Report) HasWarnings() bool { return len(r.Warnings()) > 0 }

// Err combines the error-severity messages into one error, or returns nil
// when there are none. Warnings are not included.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, m := range r.Errors() {
		result = multierror.Append(result, m.asError())
	}
	return result.ErrorOrNil()
}

// ValidateDetailed checks every rule and collects all findings. The tree is
// checked for cycles first; a nil node yields an empty report.
func ValidateDetailed(node Connectable) (*Report, error) {
	report := &Report{}
	if isNil(node) {
		return report, nil
	}
	if err := CheckCycle(node); err != nil {
		return nil, err
	}
	v := newRuleVisitor(func(m Message) error {
		report.messages = append(report.messages, m)
		return nil
	})
	if err := v.run(node); err != nil {
		return nil, err
	}
	return report, nil
}

// Validate stops at the first rule violation and returns it as a
// *ValidationError. With allowNullValues, missing values are accepted and
// the value count of polyadic conditions is not checked. The tree is checked
// for cycles first; a nil node is valid.
func Validate(node Connectable, allowNullValues bool) error {
	if isNil(node) {
		return nil
	}
	if err := CheckCycle(node); err != nil {
		return err
	}
	v := newRuleVisitor(func(m Message) error {
		if allowNullValues && (m.Code == CodeConditionNoValue || m.Code == CodeConditionAmountOfValuesNotInRange) {
			return nil
		}
		return m.asError()
	})
	return v.run(node)
}

// exprState tracks whether an open expression has seen a condition.
type exprState struct {
	hasCondition bool
}

// ruleVisitor applies the validation rules and hands every finding to
// report. A non-nil error from report stops the traversal.
type ruleVisitor struct {
	open   *stack[*exprState]
	report func(Message) error
}

func newRuleVisitor(report func(Message) error) *ruleVisitor {
	open := newStack[*exprState]()
	open.Push(&exprState{})
	return &ruleVisitor{open: open, report: report}
}

func (v *ruleVisitor) run(node Connectable) error {
	return Walk(v, node)
}

func (v *ruleVisitor) StartExpression(bool) error {
	v.open.Top().hasCondition = true
	v.open.Push(&exprState{})
	return nil
}

func (v *ruleVisitor) EndExpression() error {
	if state := v.open.Pop(); !state.hasCondition {
		return v.report(Message{Severity: SeverityError, Code: CodeExpressionConditionless})
	}
	return nil
}

func (v *ruleVisitor) Conjunct(ConjunctionType) error {
	return nil
}

func (v *ruleVisitor) basic(negate bool, name string, typ reflect.Type, op Operator, list bool) (Message, error) {
	v.open.Top().hasCondition = true
	m := Message{Name: name, Type: typ, Operator: op, Negate: negate, List: list}
	if name == "" {
		if err := v.finding(m, SeverityError, CodeConditionNoAttributeName); err != nil {
			return m, err
		}
	}
	if op == OperatorNone {
		if err := v.finding(m, SeverityError, CodeConditionNoOperator); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (v *ruleVisitor) finding(m Message, s Severity, c Code) error {
	m.Severity = s
	m.Code = c
	return v.report(m)
}

func (v *ruleVisitor) VisitUnaryCondition(negate bool, name string, typ reflect.Type, op Operator) error {
	_, err := v.basic(negate, name, typ, op, false)
	return err
}

func (v *ruleVisitor) VisitBinaryCondition(negate bool, name string, typ reflect.Type, op Operator, value any) error {
	m, err := v.basic(negate, name, typ, op, false)
	if err != nil {
		return err
	}
	if value == nil {
		return v.finding(m, SeverityWarning, CodeConditionNoValue)
	}
	return nil
}

func (v *ruleVisitor) VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op Operator, values []any) error {
	m, err := v.basic(negate, name, typ, op, true)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return v.finding(m, SeverityWarning, CodeConditionNoValue)
	}
	if op != OperatorNone && !op.Arity().Valid(values) {
		m.Count = len(values)
		return v.finding(m, SeverityError, CodeConditionAmountOfValuesNotInRange)
	}
	return nil
}
