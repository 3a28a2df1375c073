package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// Config wires the engine keeper to its collaborators.
type Config struct {
	// Authority may pause/unpause the engine and collect protocol fees.
	Authority string

	// FeeRecipient receives collected protocol fees and may also trigger
	// collection.
	FeeRecipient string

	// NativeDenom is the native settlement asset denom.
	NativeDenom string

	// UtilityDenom is the platform utility token denom.
	UtilityDenom string

	// Emergency is the external guardian veto point. Optional.
	Emergency types.EmergencyKeeper

	// Clock overrides the time source. Defaults to time.Now.
	Clock func() time.Time

	Params types.Params
}

// Keeper is the hybrid liquidity engine. All public operations run under a
// single engine-wide mutex: sequential-transaction semantics, no interleaving,
// the in-process equivalent of the on-chain reentrancy lock.
//
// State mutations run against a cachekv branch of the root store and commit
// only after every check and transfer has succeeded, so a failed operation
// leaves no partial state behind.
type Keeper struct {
	mu   sync.Mutex
	root storetypes.KVStore

	bank      types.BankKeeper
	emergency types.EmergencyKeeper
	logger    log.Logger
	metrics   *Metrics
	now       func() time.Time

	authority    string
	feeRecipient string
	nativeDenom  string
	utilityDenom string
}

// The read/quote surface external collaborators depend on.
var _ types.EngineV1 = (*Keeper)(nil)

// NewKeeper creates an engine keeper backed by the given database.
func NewKeeper(db dbm.DB, bank types.BankKeeper, logger log.Logger, cfg Config) (*Keeper, error) {
	if bank == nil {
		return nil, types.ErrInvalidInput.Wrap("bank keeper is required")
	}
	if cfg.NativeDenom == "" || cfg.UtilityDenom == "" {
		return nil, types.ErrInvalidInput.Wrap("native and utility denoms are required")
	}
	if cfg.NativeDenom == cfg.UtilityDenom {
		return nil, types.ErrInvalidInput.Wrap("native and utility denoms must differ")
	}
	if cfg.Params.SwapFeeBps == 0 && cfg.Params.MinInitialShares.IsNil() {
		cfg.Params = types.DefaultParams()
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("invalid params: %v", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	k := &Keeper{
		root:         dbadapter.Store{DB: db},
		bank:         bank,
		emergency:    cfg.Emergency,
		logger:       logger.With("module", "x/"+types.ModuleName),
		metrics:      NewMetrics(),
		now:          clock,
		authority:    cfg.Authority,
		feeRecipient: cfg.FeeRecipient,
		nativeDenom:  cfg.NativeDenom,
		utilityDenom: cfg.UtilityDenom,
	}

	if err := k.setParams(k.root, cfg.Params); err != nil {
		return nil, fmt.Errorf("NewKeeper: store params: %w", err)
	}
	return k, nil
}

// Logger returns the engine's structured logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// NativeDenom returns the native settlement asset denom.
func (k *Keeper) NativeDenom() string { return k.nativeDenom }

// UtilityDenom returns the platform utility token denom.
func (k *Keeper) UtilityDenom() string { return k.utilityDenom }

// baseDenomForRoute maps a route type to its settlement denom.
func (k *Keeper) baseDenomForRoute(route types.RouteType) (string, error) {
	switch route {
	case types.RouteNative:
		return k.nativeDenom, nil
	case types.RouteUtility:
		return k.utilityDenom, nil
	default:
		return "", types.ErrInvalidInput.Wrapf("unknown route type %q", route)
	}
}

// storeBranch is any KVStore view an operation runs against, either the root
// store or an uncommitted cachekv branch of it.
type storeBranch = storetypes.KVStore

// branch returns a cache-wrapped view of the root store. Writes stay in the
// branch until Write() is called; dropping the branch discards them.
func (k *Keeper) branch() *cachekv.Store {
	return cachekv.NewStore(k.root)
}

// emit logs an engine event as a structured record.
func (k *Keeper) emit(event string, kv ...any) {
	k.logger.Info(event, kv...)
}

// --- params ---

// GetParams returns the current engine parameters.
func (k *Keeper) GetParams(_ context.Context) (types.Params, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getParams(k.root)
}

func (k *Keeper) getParams(store storetypes.KVStore) (types.Params, error) {
	bz := store.Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}
	var p types.Params
	if err := json.Unmarshal(bz, &p); err != nil {
		return types.Params{}, fmt.Errorf("getParams: unmarshal: %w", err)
	}
	return p, nil
}

func (k *Keeper) setParams(store storetypes.KVStore, p types.Params) error {
	if err := p.Validate(); err != nil {
		return types.ErrInvalidInput.Wrapf("invalid params: %v", err)
	}
	bz, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("setParams: marshal: %w", err)
	}
	store.Set(ParamsKey, bz)
	return nil
}

// --- codec helpers ---

func marshalPool(pool *types.Pool) ([]byte, error) {
	bz, err := json.Marshal(pool)
	if err != nil {
		return nil, fmt.Errorf("marshal pool %d: %w", pool.Id, err)
	}
	return bz, nil
}

func unmarshalPool(bz []byte) (*types.Pool, error) {
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, fmt.Errorf("unmarshal pool: %w", err)
	}
	return &pool, nil
}

func marshalInt(v math.Int) ([]byte, error) {
	return v.Marshal()
}

func unmarshalInt(bz []byte) (math.Int, error) {
	v := math.ZeroInt()
	if err := v.Unmarshal(bz); err != nil {
		return math.ZeroInt(), err
	}
	return v, nil
}

// --- mutation guard ---

// requireMutable rejects mutations while the engine is paused, the external
// emergency layer has vetoed the contract, or the circuit breaker is active.
func (k *Keeper) requireMutable(ctx context.Context, store storetypes.KVStore) error {
	if bz := store.Get(PausedKey); bz != nil && bz[0] == 1 {
		return types.ErrSystemPaused.Wrap("engine is paused")
	}
	if k.emergency != nil && k.emergency.IsContractPaused(ctx, types.ModuleAddress) {
		return types.ErrSystemPaused.Wrap("emergency controls vetoed the engine")
	}
	cb, err := k.getCircuitBreaker(store)
	if err != nil {
		return err
	}
	if cb.Active {
		return types.ErrSystemPaused.Wrap("circuit breaker is active")
	}
	return nil
}

// checkDeadline validates a caller-supplied expiry once at operation entry.
// A zero deadline means no deadline. This is cooperative only: once a swap
// starts mutating state it runs to completion or fails atomically.
func (k *Keeper) checkDeadline(deadline int64, horizon time.Duration) error {
	if deadline == 0 {
		return nil
	}
	now := k.now().Unix()
	if deadline < now {
		return types.ErrDeadlineExpired.Wrapf("deadline %d is in the past (now %d)", deadline, now)
	}
	if deadline > now+int64(horizon.Seconds()) {
		return types.ErrInvalidInput.Wrapf("deadline %d exceeds maximum horizon %s", deadline, horizon)
	}
	return nil
}
