package classifier

import (
	"fmt"
	"strings"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// Kind enumerates the supported model families.
type Kind int

const (
	KindLogistic Kind = iota + 1
	KindDecisionTree
	KindRandomForest
	KindSVM
	KindKNN
	KindMLP
)

var kindNames = map[Kind]string{
	KindLogistic:     "logistic",
	KindDecisionTree: "decision_tree",
	KindRandomForest: "random_forest",
	KindSVM:          "svm",
	KindKNN:          "knn",
	KindMLP:          "mlp",
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindLogistic, KindDecisionTree, KindRandomForest, KindSVM, KindKNN, KindMLP}
}

// String returns the textual name used in configuration and APIs.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k names a supported family.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a textual name to a Kind.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for kind, n := range kindNames {
		if n == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidClassifierKind, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidClassifierKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
