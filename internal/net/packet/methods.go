package packet

import (
	"encoding/binary"
	"fmt"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateLogin              SessionState = iota // connected, awaiting credentials
	StateCharacterSelection                     // logged in, at character select
	StateInWorld                                // playing
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateLogin:
		return "Login"
	case StateCharacterSelection:
		return "CharacterSelection"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Well-known system entity ids. Calls that are not about a simulated object
// are addressed to these instead of a live entity.
const (
	SysEntityClient uint64 = 5 // entity creation/destruction domain
	SysEntityTime   uint64 = 7 // sky/time domain
)

// Server to client method selectors.
const (
	SvCreatePhysicalEntity  uint16 = 0x01
	SvDestroyPhysicalEntity uint16 = 0x02

	SvWorldLocationDescriptor uint16 = 0x03
	SvIsTargetable            uint16 = 0x04
	SvCreatureInfo            uint16 = 0x05
	SvAppearanceData          uint16 = 0x06
	SvActorControllerInfo     uint16 = 0x07
	SvLevel                   uint16 = 0x08
	SvCharacterClass          uint16 = 0x09
	SvCharacterName           uint16 = 0x0A
	SvActorName               uint16 = 0x0B
	SvIsRunning               uint16 = 0x0C
	SvTargetCategory          uint16 = 0x0D
	SvPlayerFlags             uint16 = 0x0E
	SvAttributeInfo           uint16 = 0x0F
	SvUpdateAttributes        uint16 = 0x10
	SvPreloadData             uint16 = 0x11

	SvNPCConversationStatus uint16 = 0x12
	SvConverse              uint16 = 0x13

	SvGameEffectAttached uint16 = 0x14
	SvGameEffectRemoved  uint16 = 0x15
	SvMovementModChange  uint16 = 0x16

	SvSetControlledActorID uint16 = 0x17
	SvSetSkyTime           uint16 = 0x18
	SvSetCurrentContextID  uint16 = 0x19
	SvUpdateRegions        uint16 = 0x1A
	SvAllCredits           uint16 = 0x1B
	SvAdvancementStats     uint16 = 0x1C
	SvSkills               uint16 = 0x1D
	SvAbilities            uint16 = 0x1E
	SvAbilityDrawer        uint16 = 0x1F
	SvTitles               uint16 = 0x20
	SvChangeTitle          uint16 = 0x21
	SvTitleRemoved         uint16 = 0x22

	SvBeginCharacterSelection   uint16 = 0x23
	SvCharacterInfo             uint16 = 0x24
	SvGeneratedCharacterName    uint16 = 0x25
	SvGeneratedFamilyName       uint16 = 0x26
	SvUserCreationFailed        uint16 = 0x27
	SvCharacterCreateSuccess    uint16 = 0x28
	SvAbilityDrawerSlot         uint16 = 0x29
	SvWeaponDrawerSlot          uint16 = 0x2A
	SvAvailableAllocationPoints uint16 = 0x2B

	SvOpenAuctionHouse uint16 = 0x2C
	SvVend             uint16 = 0x2D

	SvLoginOK     uint16 = 0x2E
	SvLoginFailed uint16 = 0x2F

	SvVisualCombatMode uint16 = 0x30
	SvCrouchState      uint16 = 0x31
)

// Client to server method selectors.
const (
	ClLogin uint16 = 0x80

	ClRequestCharacterName   uint16 = 0x81
	ClRequestFamilyName      uint16 = 0x82
	ClRequestCreateCharacter uint16 = 0x83
	ClRequestDeleteCharacter uint16 = 0x84
	ClEnterWorld             uint16 = 0x85

	ClLevelSkills             uint16 = 0x86
	ClRequestPerformAbility   uint16 = 0x87
	ClRequestSetAbilitySlot   uint16 = 0x88
	ClRequestSwapAbilitySlots uint16 = 0x89
	ClRequestArmAbility       uint16 = 0x8A
	ClRequestArmWeapon        uint16 = 0x8B
	ClRequestVisualCombatMode uint16 = 0x8C
	ClSetDesiredCrouchState   uint16 = 0x8D
	ClChangeTitle             uint16 = 0x8E
	ClSetAppearanceItem       uint16 = 0x8F

	ClRequestNPCConverse         uint16 = 0x90
	ClRequestNPCVending          uint16 = 0x91
	ClRequestNPCOpenAuctionHouse uint16 = 0x92
	ClRequestCancelVendor        uint16 = 0x93

	ClQuit      uint16 = 0x94
	ClKeepAlive uint16 = 0x95
)

// Method is a method-shaped message addressed to one entity. The byte
// encoding of arguments is owned by Writer; implementations only fix the
// argument order.
type Method interface {
	MethodID() uint16
	MarshalArgs(w *Writer)
}

// Marshal builds the payload of one entity-addressed call:
// [8B LE entity id][2B LE method id][arguments].
func Marshal(entityID uint64, m Method) []byte {
	w := NewWriter()
	w.WriteQ(entityID)
	w.WriteH(m.MethodID())
	m.MarshalArgs(w)
	return w.Bytes()
}

// PeekMethodID extracts the method id from a raw payload without allocating
// a Reader.
func PeekMethodID(data []byte) uint16 {
	if len(data) < headerLen {
		return 0
	}
	return binary.LittleEndian.Uint16(data[8:10])
}
