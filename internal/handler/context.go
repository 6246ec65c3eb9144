package handler

import (
	"github.com/novarift/server/internal/config"
	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"github.com/novarift/server/internal/persist"
	"github.com/novarift/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Registry      *entity.Registry
	Channels      *world.ChannelManager
	Missions      *world.MissionTable
	CreatureTypes map[uint32]*world.CreatureType
	AccountRepo   *persist.AccountRepo
	CharRepo      *persist.CharacterRepo
	CreatureRepo  *persist.CreatureRepo
	NameRepo      *persist.NameRepo
	Config        *config.Config
	Log           *zap.Logger
}

// PlayerContext is the handler-owned per-session state, hung off
// net.Session.UserData. Fields fill in as the session advances through
// login, character selection and world entry.
type PlayerContext struct {
	Account *persist.AccountRow
	CharRow *persist.CharacterRow
	Player  *world.PlayerData
	Channel *world.MapChannel
	Client  *world.MapChannelClient
}

// pctx returns the session's PlayerContext, creating it on first use.
// Only the dispatch goroutine touches UserData.
func pctx(sess *net.Session) *PlayerContext {
	if sess.UserData == nil {
		sess.UserData = &PlayerContext{}
	}
	return sess.UserData.(*PlayerContext)
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	login := []packet.SessionState{packet.StateLogin}
	charSelect := []packet.SessionState{packet.StateCharacterSelection}
	inWorld := []packet.SessionState{packet.StateInWorld}
	anyActive := []packet.SessionState{
		packet.StateLogin, packet.StateCharacterSelection, packet.StateInWorld,
	}

	reg.Register(packet.ClLogin, login,
		func(sess any, r *packet.Reader) {
			HandleLogin(sess.(*net.Session), r, deps)
		},
	)

	reg.Register(packet.ClRequestCharacterName, charSelect,
		func(sess any, r *packet.Reader) {
			HandleRequestCharacterName(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestFamilyName, charSelect,
		func(sess any, r *packet.Reader) {
			HandleRequestFamilyName(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestCreateCharacter, charSelect,
		func(sess any, r *packet.Reader) {
			HandleRequestCreateCharacter(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestDeleteCharacter, charSelect,
		func(sess any, r *packet.Reader) {
			HandleRequestDeleteCharacter(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClEnterWorld, charSelect,
		func(sess any, r *packet.Reader) {
			HandleEnterWorld(sess.(*net.Session), r, deps)
		},
	)

	reg.Register(packet.ClLevelSkills, inWorld,
		func(sess any, r *packet.Reader) {
			HandleLevelSkills(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestPerformAbility, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestPerformAbility(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestSetAbilitySlot, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestSetAbilitySlot(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestSwapAbilitySlots, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestSwapAbilitySlots(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestArmAbility, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestArmAbility(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestArmWeapon, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestArmWeapon(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestVisualCombatMode, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestVisualCombatMode(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClSetDesiredCrouchState, inWorld,
		func(sess any, r *packet.Reader) {
			HandleSetDesiredCrouchState(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClChangeTitle, inWorld,
		func(sess any, r *packet.Reader) {
			HandleChangeTitle(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClSetAppearanceItem, inWorld,
		func(sess any, r *packet.Reader) {
			HandleSetAppearanceItem(sess.(*net.Session), r, deps)
		},
	)

	reg.Register(packet.ClRequestNPCConverse, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestNPCConverse(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestNPCVending, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestNPCVending(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestNPCOpenAuctionHouse, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestNPCOpenAuctionHouse(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClRequestCancelVendor, inWorld,
		func(sess any, r *packet.Reader) {
			HandleRequestCancelVendor(sess.(*net.Session), r, deps)
		},
	)

	reg.Register(packet.ClQuit,
		[]packet.SessionState{packet.StateCharacterSelection, packet.StateInWorld},
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.ClKeepAlive, anyActive,
		func(sess any, r *packet.Reader) {},
	)
}

// SessionClosed is the net.Server close callback. It tears down world
// presence for sessions that die without a clean quit.
func SessionClosed(sess *net.Session, deps *Deps) {
	ctx, ok := sess.UserData.(*PlayerContext)
	if !ok || ctx == nil {
		return
	}
	if ctx.Channel != nil && ctx.Client != nil {
		savePlayerPosition(ctx.Player, ctx.Channel, deps)
		DiscardClientFromChannel(ctx.Channel, ctx.Client, deps)
		ctx.Channel = nil
		ctx.Client = nil
	}
	if ctx.Account != nil {
		go func(accountID uint32) {
			c, cancel := dbCtx()
			defer cancel()
			if err := deps.AccountRepo.SetOnline(c, accountID, false); err != nil {
				deps.Log.Warn("mark account offline failed", zap.Error(err))
			}
		}(ctx.Account.ID)
	}
}
