package commitproof

import (
	"encoding/base64"
	"time"

	"github.com/privacybydesign/commitproof/commitment"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

// Commitment is the result of a Prove operation: the Base64 proof and the
// Base64 salt it was computed with. Both are needed, together with the
// revealed attribute, to verify it later.
type Commitment struct {
	Predicate string
	Proof     string
	Salt      string
}

// Envelope converts the commitment to the binary envelope handed to verifiers.
func (c *Commitment) Envelope() (*commitment.Envelope, error) {
	return commitment.NewEnvelope(c.Predicate, c.Proof, c.Salt)
}

// Engine produces and checks commitments for the supported predicates. An
// Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	provider *commitment.Provider
	now      func() time.Time
	log      *logrus.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of the current date, used to reject birth dates
// in the future and to compute ages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger replaces the package Logger for this engine.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine computing commitments with provider. A nil
// provider is a programming error.
func NewEngine(provider *commitment.Provider, opts ...Option) *Engine {
	if provider == nil {
		panic("commitproof: nil commitment provider")
	}
	e := &Engine{provider: provider, now: time.Now, log: Logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// predicate describes one kind of attestation: how its inputs are validated,
// which condition they must satisfy, and which field is committed to.
type predicate[T any] struct {
	name      string
	validate  func(T) error
	check     func(T) error
	canonical func(T) string
}

func prove[T any](e *Engine, p predicate[T], in T) (*Commitment, error) {
	entry := e.log.WithField("predicate", p.name)
	if err := p.validate(in); err != nil {
		entry.Debug("refusing to prove: invalid input")
		return nil, errors.Wrap(err, 1)
	}
	if err := p.check(in); err != nil {
		entry.Debug("refusing to prove: predicate does not hold")
		return nil, errors.Wrap(err, 1)
	}

	salt := e.provider.GenerateSalt()
	mac, err := e.provider.Sum([]byte(p.canonical(in) + salt))
	if err != nil {
		return nil, errors.WrapPrefix(err, "cannot compute commitment", 0)
	}
	entry.Trace("commitment created")
	return &Commitment{
		Predicate: p.name,
		Proof:     base64.StdEncoding.EncodeToString(mac),
		Salt:      salt,
	}, nil
}

// verify never fails with an error: any problem with the input is reported as false.
func verify[T any](e *Engine, p predicate[T], proof, salt string, in T) bool {
	entry := e.log.WithField("predicate", p.name)
	if proof == "" || salt == "" {
		entry.Debug("verification failed: empty proof or salt")
		return false
	}
	if err := p.validate(in); err != nil {
		entry.Debug("verification failed: invalid revealed input")
		return false
	}

	mac, err := e.provider.Sum([]byte(p.canonical(in) + salt))
	if err != nil {
		entry.WithError(err).Warn("verification failed: cannot compute commitment")
		return false
	}
	macOK := commitment.ConstantTimeEquals(proof, base64.StdEncoding.EncodeToString(mac))
	holds := p.check(in) == nil

	entry.WithFields(logrus.Fields{"mac_ok": macOK, "predicate_holds": holds}).Debug("verified commitment")
	return macOK && holds
}
