package availability

import (
	"errors"
	"fmt"
)

// ParseError indica data/hora malformada ou duração inválida vinda do chamador.
// Nunca é engolido: o chamador recebe o erro como está.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError é devolvido na carga da configuração (intervalo ou
// expediente com início >= fim). Não é reavaliado a cada consulta.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

var (
	ErrEmptyRange      = errors.New("range must have start before end")
	ErrNonPositiveSpan = errors.New("must be greater than zero")
)

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
