package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/persist"
	"github.com/exoterra/server/internal/world"
	"github.com/exoterra/server/internal/ws"
)

// Engine interprets GM console commands and applies authoritative player
// mutations. Commands are tokenized by whitespace into verb, target and
// arguments; arguments are validated before any row is touched. Every
// successful command ends with one invalidation broadcast.
type Engine struct {
	store    Store
	catalog  *data.Catalog
	registry Broadcaster
	audit    Auditor
	macros   Macros
	locks    *playerLocks
	log      *zap.Logger
}

// NewEngine wires the engine. audit and macros may be nil.
func NewEngine(store Store, catalog *data.Catalog, registry Broadcaster, audit Auditor, macros Macros, log *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		catalog:  catalog,
		registry: registry,
		audit:    audit,
		macros:   macros,
		locks:    newPlayerLocks(),
		log:      log,
	}
}

// Execute runs one GM console command on behalf of gmName.
func (e *Engine) Execute(ctx context.Context, gmName, command string) (string, error) {
	gm, err := e.authorize(ctx, gmName)
	if err != nil {
		return "", err
	}
	msg, err := e.dispatch(ctx, gm, command, 0)
	if err != nil {
		return "", err
	}
	e.registry.Broadcast(ws.Invalidate)
	return msg, nil
}

// authorize resolves the issuing player and verifies the GM flag.
func (e *Engine) authorize(ctx context.Context, gmName string) (*world.Player, error) {
	gm, err := e.store.Load(ctx, world.NormalizeName(gmName))
	if err != nil {
		return nil, err
	}
	if gm == nil || !gm.IsGM {
		return nil, Forbidden("non sei un game master")
	}
	return gm, nil
}

func (e *Engine) dispatch(ctx context.Context, gm *world.Player, command string, depth int) (string, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", BadRequest("comando vuoto")
	}
	verb := strings.ToLower(parts[0])
	if len(parts) < 2 {
		return "", BadRequest("destinatario mancante")
	}
	target := parts[1]
	args := parts[2:]

	switch verb {
	case "_dmg":
		return e.adjustGauge(ctx, target, args, gaugeBiofeedback, -1, "danno inflitto")
	case "_heal":
		return e.adjustGauge(ctx, target, args, gaugeBiofeedback, +1, "cura applicata")
	case "_f":
		return e.adjustGauge(ctx, target, args, gaugeHunger, +1, "fame modificata")
	case "_s":
		return e.adjustGauge(ctx, target, args, gaugeThirst, +1, "sete modificata")
	case "_so":
		return e.adjustGauge(ctx, target, args, gaugeSleep, +1, "sonno modificato")
	case "_e":
		return e.adjustGauge(ctx, target, args, gaugeEnergy, +1, "energia modificata")
	case "_quickstrangle":
		return e.mutateTargets(ctx, target, "ossigeno azzerato", func(p *world.Player) {
			p.Oxygen = 0
		})
	case "_slowstrangle":
		return e.mutateTargets(ctx, target, "ossigeno ridotto", func(p *world.Player) {
			p.Oxygen = world.Clamp100(p.Oxygen - 50)
		})
	case "ill":
		return e.mutateTargets(ctx, target, "malattia inflitta", func(p *world.Player) {
			p.IsSick = true
		})
	case "fix":
		return e.mutateTargets(ctx, target, "malattia curata", func(p *world.Player) {
			p.IsSick = false
		})
	case "give":
		return e.give(ctx, gm, target, args)
	case "sack":
		return e.sack(ctx, gm, target)
	case "_newday":
		// Target token is required by the grammar but ignored: daybreak
		// always hits every player.
		n, err := e.NewDayAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("nuovo giorno: %d giocatori aggiornati", n), nil
	default:
		if e.macros != nil && depth == 0 {
			if cmds, ok := e.macros.Expand(verb); ok {
				return e.runMacro(ctx, gm, verb, target, cmds)
			}
		}
		return "", BadRequest("comando sconosciuto: %s", verb)
	}
}

// runMacro expands a scripted verb into built-in commands against the same
// target. Depth is capped at one level: macros cannot call macros.
func (e *Engine) runMacro(ctx context.Context, gm *world.Player, verb, target string, cmds []string) (string, error) {
	var msgs []string
	for _, c := range cmds {
		mparts := strings.Fields(c)
		if len(mparts) == 0 {
			continue
		}
		sub := strings.Join(append([]string{mparts[0], target}, mparts[1:]...), " ")
		msg, err := e.dispatch(ctx, gm, sub, 1)
		if err != nil {
			return "", err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return "", BadRequest("macro vuota: %s", verb)
	}
	e.log.Info("macro eseguita",
		zap.String("gm", gm.Name), zap.String("macro", verb))
	return strings.Join(msgs, "; "), nil
}

type gauge int

const (
	gaugeBiofeedback gauge = iota
	gaugeHunger
	gaugeThirst
	gaugeSleep
	gaugeEnergy
)

// adjustGauge applies a bounded numeric adjustment. sign folds _dmg into
// the same path as the additive verbs.
func (e *Engine) adjustGauge(ctx context.Context, target string, args []string, g gauge, sign int, okMsg string) (string, error) {
	if len(args) < 1 {
		return "", BadRequest("quantità mancante")
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return "", BadRequest("quantità non valida: %s", args[0])
	}
	delta := amount * sign
	return e.mutateTargets(ctx, target, okMsg, func(p *world.Player) {
		switch g {
		case gaugeBiofeedback:
			p.Biofeedback = world.Clamp100(p.Biofeedback + delta)
		case gaugeHunger:
			p.Hunger = world.Clamp100(p.Hunger + delta)
		case gaugeThirst:
			p.Thirst = world.Clamp100(p.Thirst + delta)
		case gaugeSleep:
			p.Sleep = world.Clamp100(p.Sleep + delta)
		case gaugeEnergy:
			p.Energy = world.Clamp100(p.Energy + delta)
		}
	})
}

// mutateTargets applies fn to every resolved target under its mutation
// lock. Multi-target commands process every target and report partial
// failures instead of stopping mid-batch.
func (e *Engine) mutateTargets(ctx context.Context, target, okMsg string, fn func(*world.Player)) (string, error) {
	names, err := e.resolveTargets(ctx, target)
	if err != nil {
		return "", err
	}

	var done int
	var failures []string
	var firstErr error
	for _, name := range names {
		err := e.withPlayer(ctx, name, func(p *world.Player) error {
			fn(p)
			return e.store.SaveGauges(ctx, p)
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		done++
	}

	if len(names) == 1 && firstErr != nil {
		return "", firstErr
	}
	msg := fmt.Sprintf("%s (%d giocatori)", okMsg, done)
	if len(failures) > 0 {
		msg += "; falliti: " + strings.Join(failures, ", ")
	}
	return msg, nil
}

// resolveTargets expands the target token: a literal player name or the
// case-insensitive "all".
func (e *Engine) resolveTargets(ctx context.Context, token string) ([]string, error) {
	if strings.EqualFold(token, "all") {
		players, err := e.store.List(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(players))
		for _, p := range players {
			names = append(names, p.Name)
		}
		return names, nil
	}

	name := world.NormalizeName(token)
	p, err := e.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFound("giocatore non trovato: %s", token)
	}
	return []string{name}, nil
}

// withPlayer runs fn on a freshly loaded record under the player's mutation
// lock, so read-modify-write sequences never interleave.
func (e *Engine) withPlayer(ctx context.Context, name string, fn func(*world.Player) error) error {
	mu := e.locks.get(name)
	mu.Lock()
	defer mu.Unlock()

	p, err := e.store.Load(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return NotFound("giocatore non trovato: %s", name)
	}
	return fn(p)
}

// NewDayAll applies the daybreak decay to every player and returns how many
// were updated. The periodic tick and the _newday verb share this path.
func (e *Engine) NewDayAll(ctx context.Context) (int, error) {
	players, err := e.store.List(ctx)
	if err != nil {
		return 0, err
	}

	var done int
	for _, rec := range players {
		name := rec.Name
		err := e.withPlayer(ctx, name, func(p *world.Player) error {
			p.ApplyNewDay()
			return e.store.SaveGauges(ctx, p)
		})
		if err != nil {
			e.log.Warn("daybreak update failed",
				zap.String("player", name), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

func (e *Engine) recordAudit(ctx context.Context, entries []persist.AuditEntry) {
	if e.audit == nil || len(entries) == 0 {
		return
	}
	if err := e.audit.Record(ctx, entries); err != nil {
		e.log.Warn("audit write failed", zap.Error(err))
	}
}
