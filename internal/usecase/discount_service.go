package usecase

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/engine"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/interfaces"
	"github.com/Victor-armando18/discount-function/internal/usecase/candidates"
	"github.com/Victor-armando18/discount-function/internal/usecase/decode"
	"github.com/Victor-armando18/discount-function/internal/usecase/eligibility"
	"github.com/Victor-armando18/discount-function/internal/usecase/fetch"
	"go.uber.org/zap"
)

// DiscountService evaluates the four targets. It holds no per-evaluation
// state, so one instance serves any number of calls.
type DiscountService struct {
	policy   domain.Policy
	loader   interfaces.ConfigurationLoader
	builder  *candidates.Builder
	requests *fetch.Builder
	logger   *zap.Logger
}

type Option func(*DiscountService)

func WithLogger(l *zap.Logger) Option {
	return func(s *DiscountService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewDiscountService(policy domain.Policy, loader interfaces.ConfigurationLoader, rules interfaces.LineRuleExecutor, opts ...Option) *DiscountService {
	policy = policy.WithDefaults()
	s := &DiscountService{
		policy:   policy,
		loader:   loader,
		builder:  candidates.NewBuilder(rules, policy.DeliveryTargeting),
		requests: fetch.NewBuilder(policy, loader),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.DiscountFunction = (*DiscountService)(nil)

func (s *DiscountService) Policy() domain.Policy { return s.policy }

func (s *DiscountService) CartLinesFetch(ctx context.Context, in *model.Input) (*engine.FetchResult, error) {
	return s.fetch(ctx, domain.TargetCartLinesFetch, in)
}

func (s *DiscountService) CartLinesRun(ctx context.Context, in *model.Input) (*engine.Result, error) {
	return s.run(ctx, domain.TargetCartLinesRun, in)
}

func (s *DiscountService) DeliveryFetch(ctx context.Context, in *model.Input) (*engine.FetchResult, error) {
	return s.fetch(ctx, domain.TargetDeliveryFetch, in)
}

func (s *DiscountService) DeliveryRun(ctx context.Context, in *model.Input) (*engine.Result, error) {
	return s.run(ctx, domain.TargetDeliveryRun, in)
}

func (s *DiscountService) fetch(ctx context.Context, target domain.Target, in *model.Input) (*engine.FetchResult, error) {
	if in == nil {
		in = &model.Input{}
	}
	ec := engine.NewContext(target, in)
	e := &engine.Engine{
		Logger: s.logger,
		Steps: []engine.Step{{
			Target: engine.PhaseRequestBuilt,
			Name:   "buildRequest",
			Do: func(ctx context.Context, ec *engine.EngineContext) error {
				req, err := s.requests.Build(ctx, ec.Input)
				if err != nil {
					return err
				}
				ec.Request = req
				ec.Note("buildRequest", "%s %s with %d entered codes", req.Method, req.URL, len(ec.Input.EnteredDiscountCodes))
				return nil
			},
		}},
	}
	if err := e.Run(ctx, ec); err != nil {
		return nil, err
	}
	return engine.AssembleFetch(ec)
}

func (s *DiscountService) run(ctx context.Context, target domain.Target, in *model.Input) (*engine.Result, error) {
	if in == nil {
		in = &model.Input{}
	}
	ec := engine.NewContext(target, in)
	e := &engine.Engine{
		Logger: s.logger,
		Steps:  s.runSteps(),
		Guards: []engine.Guard{
			{Name: "targetCategories", Check: checkTargetCategories},
			{Name: "operationShape", Check: checkOperationShape},
		},
	}
	if err := e.Run(ctx, ec); err != nil {
		return nil, err
	}

	res, err := engine.Assemble(ec, s.policy.WireFormat)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("evaluation complete",
		zap.String("target", string(target)),
		zap.String("runMode", string(s.policy.RunMode)),
		zap.Int("operations", len(res.Operations)),
	)
	return res, nil
}

func (s *DiscountService) runSteps() []engine.Step {
	loadConfig := engine.Step{
		Target: engine.PhaseConfigurationLoaded,
		Name:   "loadConfiguration",
		Do: func(ctx context.Context, ec *engine.EngineContext) error {
			cfg, err := s.loader.Load(ctx, ec.Input.Metafield())
			if err != nil {
				return err
			}
			ec.Config = cfg
			return nil
		},
	}
	resolve := engine.Step{
		Target: engine.PhaseEligibilityResolved,
		Name:   "resolveEligibility",
		Do: func(_ context.Context, ec *engine.EngineContext) error {
			ec.Eligibility = eligibility.ForTarget(ec.Input.Discount.DiscountClasses, ec.Target)
			if !ec.Eligibility.AnyOf(ec.Target.Categories()...) {
				ec.Note("resolveEligibility", "no eligible discount class among %v", ec.Input.Discount.DiscountClasses)
			}
			return nil
		},
	}

	switch s.policy.RunMode {
	case domain.RunOperations:
		return []engine.Step{resolve, {
			Target: engine.PhaseCandidatesBuilt,
			Name:   "decodeOperations",
			Do: func(_ context.Context, ec *engine.EngineContext) error {
				ops, err := decode.Operations(ec.Input.FetchResult, ec.Eligibility)
				if err != nil {
					return err
				}
				ec.Operations = ops
				return nil
			},
		}}
	case domain.RunValidCodes:
		return []engine.Step{loadConfig, resolve, {
			Target: engine.PhaseCandidatesBuilt,
			Name:   "buildForValidCodes",
			Do: func(ctx context.Context, ec *engine.EngineContext) error {
				codes, err := decode.ValidCodes(ec.Input.FetchResult)
				if err != nil {
					return err
				}
				if len(codes) == 0 {
					ec.Note("buildForValidCodes", "backend validated no codes")
				}
				ops, err := s.builder.BuildForCodes(ctx, ec.Input, ec.Config, ec.Eligibility, codes)
				if err != nil {
					return err
				}
				ec.Operations = ops
				return nil
			},
		}}
	default:
		return []engine.Step{loadConfig, resolve, {
			Target: engine.PhaseCandidatesBuilt,
			Name:   "buildCandidates",
			Do: func(ctx context.Context, ec *engine.EngineContext) error {
				ops, err := s.builder.Build(ctx, ec.Input, ec.Config, ec.Eligibility)
				if err != nil {
					return err
				}
				ec.Operations = ops
				return nil
			},
		}}
	}
}

func checkTargetCategories(ec *engine.EngineContext) error {
	for _, op := range ec.Operations {
		cat, ok := domain.CategoryOf(op.Kind)
		if !ok {
			continue
		}
		if !ec.Eligibility.Allows(cat) {
			return fmt.Errorf("%s operation emitted for %s", cat, ec.Target)
		}
	}
	return nil
}

func checkOperationShape(ec *engine.EngineContext) error {
	for i, op := range ec.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}
