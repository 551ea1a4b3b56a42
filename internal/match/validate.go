package match

import "strings"

// Field-level validation messages.
const (
	MsgLeftNameRequired  = "Player 1 name is required"
	MsgRightNameRequired = "Player 2 name is required"
	MsgNamesMustDiffer   = "Names must be different"
)

// NameErrors carries one message per setup field. Empty means the field is valid.
type NameErrors struct {
	Left  string
	Right string
}

func (e *NameErrors) Error() string {
	switch {
	case e.Left != "" && e.Right != "" && e.Left == e.Right:
		return "match: " + e.Left
	case e.Left != "" && e.Right != "":
		return "match: " + e.Left + "; " + e.Right
	case e.Left != "":
		return "match: " + e.Left
	default:
		return "match: " + e.Right
	}
}

// ValidateNames trims both names and checks that they are present and distinct.
// On failure the error is a *NameErrors.
func ValidateNames(left, right string) (Players, error) {
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)

	var errs NameErrors
	if left == "" {
		errs.Left = MsgLeftNameRequired
	}
	if right == "" {
		errs.Right = MsgRightNameRequired
	}
	if left != "" && left == right {
		errs.Left = MsgNamesMustDiffer
		errs.Right = MsgNamesMustDiffer
	}

	if errs.Left != "" || errs.Right != "" {
		return Players{}, &errs
	}
	return Players{Left: left, Right: right}, nil
}
