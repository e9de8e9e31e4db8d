// Package dispatch exposes the single query/mutation endpoint. Every
// operation is registered by name with an ordered list of permission gates;
// the dispatcher resolves the bearer token once per request and runs the
// gates before the operation body.
package dispatch

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/auth"
	"github.com/softalya/foodcourt/internal/http/response"
	"github.com/softalya/foodcourt/internal/ratelimit"
	"github.com/softalya/foodcourt/internal/repo/postgres"
	"github.com/softalya/foodcourt/internal/service"
	"github.com/softalya/foodcourt/pkg/logger"
)

// Envelope is the wire format of every request:
// {"operation": "login", "payload": {...}}.
type Envelope struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type Result struct {
	Data any `json:"data"`
}

// HandlerFunc is an operation body. It only runs after every gate passed.
type HandlerFunc func(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error)

type Operation struct {
	Name      string
	Gates     []Gate
	Throttled bool
	Handle    HandlerFunc
}

type Dispatcher struct {
	accounts    postgres.AccountRepository
	tokens      *auth.TokenService
	accountSvc  service.AccountService
	businessSvc service.BusinessService
	orderSvc    service.OrderService
	limiter     ratelimit.Limiter
	ops         map[string]*Operation
}

func New(
	accounts postgres.AccountRepository,
	tokens *auth.TokenService,
	accountSvc service.AccountService,
	businessSvc service.BusinessService,
	orderSvc service.OrderService,
	limiter ratelimit.Limiter,
) *Dispatcher {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	d := &Dispatcher{
		accounts:    accounts,
		tokens:      tokens,
		accountSvc:  accountSvc,
		businessSvc: businessSvc,
		orderSvc:    orderSvc,
		limiter:     limiter,
		ops:         make(map[string]*Operation),
	}
	d.registerAccountOps()
	d.registerBusinessOps()
	d.registerOrderOps()
	return d
}

func (d *Dispatcher) register(op Operation) {
	d.ops[op.Name] = &op
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	op, ok := d.ops[env.Operation]
	if !ok {
		response.BadRequest(w, "unknown operation")
		return
	}

	ctx := r.Context()

	if op.Throttled {
		allowed, err := d.limiter.Allow(ctx, env.Operation+":"+clientIP(r))
		if err != nil {
			// A broken limiter should not take the API down with it.
			logger.WarnContext(ctx, "rate limiter unavailable", "operation", op.Name, "error", err)
		} else if !allowed {
			response.RateLimit(w, "too many requests, try again later")
			return
		}
	}

	var ac *AuthContext
	if len(op.Gates) > 0 {
		ac = d.resolveAuth(r)
		if ac.Account != nil {
			ctx = context.WithValue(ctx, logger.AccountIDKey, ac.Account.ID)
		}
		for _, gate := range op.Gates {
			if err := gate.Check(ac); err != nil {
				// The reason stays in the logs; the client always sees the
				// same rejection regardless of which gate failed.
				logger.WarnContext(ctx, "gate rejected request",
					"operation", op.Name,
					"gate", gate.Name,
					"reason", err.Error(),
				)
				response.Unauthorized(w, "unauthorized")
				return
			}
		}
	}

	result, err := op.Handle(ctx, ac, env.Payload)
	if err != nil {
		d.writeError(ctx, w, op.Name, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, Result{Data: result})
}

func (d *Dispatcher) writeError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	msg := apperr.ClientMessage(err)

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		response.BadRequest(w, msg)
	case apperr.KindUnauthorized:
		response.Unauthorized(w, msg)
	case apperr.KindNotFound:
		response.NotFound(w, msg)
	case apperr.KindConflict:
		response.Conflict(w, msg)
	case apperr.KindDependency:
		logger.ErrorContext(ctx, "dependency failure", "operation", operation, "error", err)
		response.Unavailable(w, msg)
	default:
		logger.ErrorContext(ctx, "operation failed", "operation", operation, "error", err)
		response.InternalError(w, msg)
	}
}

// decode unmarshals an operation payload; an absent payload decodes into the
// zero value.
func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return apperr.Validation("invalid payload format")
	}
	return nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
