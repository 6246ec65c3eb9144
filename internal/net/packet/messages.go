package packet

// Server to client method messages. Each type fixes the argument order of one
// call; the Writer owns the byte encoding. The describe sequence in the
// interest broadcaster depends on these argument sets staying stable.

// AttributeEntry is one actor attribute record on the wire.
type AttributeEntry struct {
	Kind          int32
	Current       float64
	CurrentMax    float64
	NormalMax     float64
	RegenRate     float64
	RefreshAmount float64
}

func writeAttributes(w *Writer, attrs []AttributeEntry) {
	w.WriteH(uint16(len(attrs)))
	for _, a := range attrs {
		w.WriteD(a.Kind)
		w.WriteF(a.Current)
		w.WriteF(a.CurrentMax)
		w.WriteF(a.NormalMax)
		w.WriteF(a.RegenRate)
		w.WriteF(a.RefreshAmount)
	}
}

// AppearanceEntry is one visual equipment slot on the wire.
type AppearanceEntry struct {
	SlotID  int32
	ClassID int32
	Hue     int32
}

// --- entity lifecycle ---

type CreatePhysicalEntity struct {
	EntityID uint64
	ClassID  int32
}

func (CreatePhysicalEntity) MethodID() uint16 { return SvCreatePhysicalEntity }
func (m CreatePhysicalEntity) MarshalArgs(w *Writer) {
	w.WriteQ(m.EntityID)
	w.WriteD(m.ClassID)
}

type DestroyPhysicalEntity struct {
	EntityID uint64
}

func (DestroyPhysicalEntity) MethodID() uint16 { return SvDestroyPhysicalEntity }
func (m DestroyPhysicalEntity) MarshalArgs(w *Writer) {
	w.WriteQ(m.EntityID)
}

// --- describe sequence ---

type WorldLocationDescriptor struct {
	PosX, PosY, PosZ       float64
	RotX, RotY, RotZ, RotW float64
}

func (WorldLocationDescriptor) MethodID() uint16 { return SvWorldLocationDescriptor }
func (m WorldLocationDescriptor) MarshalArgs(w *Writer) {
	w.WriteF(m.PosX)
	w.WriteF(m.PosY)
	w.WriteF(m.PosZ)
	w.WriteF(m.RotX)
	w.WriteF(m.RotY)
	w.WriteF(m.RotZ)
	w.WriteF(m.RotW)
}

type IsTargetable struct {
	Targetable bool
}

func (IsTargetable) MethodID() uint16 { return SvIsTargetable }
func (m IsTargetable) MarshalArgs(w *Writer) {
	w.WriteB(m.Targetable)
}

type CreatureInfo struct {
	NameID int32
	Flags  []int32
}

func (CreatureInfo) MethodID() uint16 { return SvCreatureInfo }
func (m CreatureInfo) MarshalArgs(w *Writer) {
	w.WriteD(m.NameID)
	w.WriteH(uint16(len(m.Flags)))
	for _, f := range m.Flags {
		w.WriteD(f)
	}
}

type AppearanceData struct {
	Slots []AppearanceEntry
}

func (AppearanceData) MethodID() uint16 { return SvAppearanceData }
func (m AppearanceData) MarshalArgs(w *Writer) {
	w.WriteH(uint16(len(m.Slots)))
	for _, s := range m.Slots {
		w.WriteD(s.SlotID)
		w.WriteD(s.ClassID)
		w.WriteD(s.Hue)
	}
}

type ActorControllerInfo struct {
	IsPlayer bool
}

func (ActorControllerInfo) MethodID() uint16 { return SvActorControllerInfo }
func (m ActorControllerInfo) MarshalArgs(w *Writer) {
	w.WriteB(m.IsPlayer)
}

type Level struct {
	Level int32
}

func (Level) MethodID() uint16 { return SvLevel }
func (m Level) MarshalArgs(w *Writer) {
	w.WriteD(m.Level)
}

type CharacterClass struct {
	ClassID int32
}

func (CharacterClass) MethodID() uint16 { return SvCharacterClass }
func (m CharacterClass) MarshalArgs(w *Writer) {
	w.WriteD(m.ClassID)
}

type CharacterName struct {
	Name string
}

func (CharacterName) MethodID() uint16 { return SvCharacterName }
func (m CharacterName) MarshalArgs(w *Writer) {
	w.WriteS(m.Name)
}

type ActorName struct {
	FamilyName string
}

func (ActorName) MethodID() uint16 { return SvActorName }
func (m ActorName) MarshalArgs(w *Writer) {
	w.WriteS(m.FamilyName)
}

type IsRunning struct {
	Running bool
}

func (IsRunning) MethodID() uint16 { return SvIsRunning }
func (m IsRunning) MarshalArgs(w *Writer) {
	w.WriteB(m.Running)
}

type TargetCategory struct {
	Faction int32
}

func (TargetCategory) MethodID() uint16 { return SvTargetCategory }
func (m TargetCategory) MarshalArgs(w *Writer) {
	w.WriteD(m.Faction)
}

type PlayerFlags struct{}

func (PlayerFlags) MethodID() uint16 { return SvPlayerFlags }
func (PlayerFlags) MarshalArgs(w *Writer) {}

type AttributeInfo struct {
	Attributes []AttributeEntry
}

func (AttributeInfo) MethodID() uint16 { return SvAttributeInfo }
func (m AttributeInfo) MarshalArgs(w *Writer) {
	writeAttributes(w, m.Attributes)
}

type UpdateAttributes struct {
	Attributes []AttributeEntry
	Delta      int32
}

func (UpdateAttributes) MethodID() uint16 { return SvUpdateAttributes }
func (m UpdateAttributes) MarshalArgs(w *Writer) {
	writeAttributes(w, m.Attributes)
	w.WriteD(m.Delta)
}

type PreloadData struct{}

func (PreloadData) MethodID() uint16 { return SvPreloadData }
func (PreloadData) MarshalArgs(w *Writer) {}

// --- NPC conversation ---

type NPCConversationStatus struct {
	Status int32
	Args   []int32
}

func (NPCConversationStatus) MethodID() uint16 { return SvNPCConversationStatus }
func (m NPCConversationStatus) MarshalArgs(w *Writer) {
	w.WriteD(m.Status)
	w.WriteH(uint16(len(m.Args)))
	for _, a := range m.Args {
		w.WriteD(a)
	}
}

// Converse topic kind tags on the wire.
const (
	topicMissionDispense int32 = 2
	topicMissionComplete int32 = 3
	topicTraining        int32 = 10
	topicVending         int32 = 11
	topicAuctioneer      int32 = 14
)

// ConverseMission is one mission entry of a converse topic.
type ConverseMission struct {
	MissionIndex int32
	Level        int32
	GroupType    int32
}

// Converse carries the closed set of conversation topics an NPC offers.
// Absent topics are skipped on the wire.
type Converse struct {
	Dispensable  []ConverseMission
	Completable  []int32
	VendorIDs    []int32
	IsAuctioneer bool
	TrainingTier int32 // 0 = no training topic
}

func (Converse) MethodID() uint16 { return SvConverse }
func (m Converse) MarshalArgs(w *Writer) {
	count := 0
	if len(m.Dispensable) > 0 {
		count++
	}
	if len(m.Completable) > 0 {
		count++
	}
	if len(m.VendorIDs) > 0 {
		count++
	}
	if m.IsAuctioneer {
		count++
	}
	if m.TrainingTier > 0 {
		count++
	}
	w.WriteH(uint16(count))
	if len(m.Dispensable) > 0 {
		w.WriteD(topicMissionDispense)
		w.WriteH(uint16(len(m.Dispensable)))
		for _, d := range m.Dispensable {
			w.WriteD(d.MissionIndex)
			w.WriteD(d.Level)
			w.WriteD(d.GroupType)
		}
	}
	if len(m.Completable) > 0 {
		w.WriteD(topicMissionComplete)
		w.WriteH(uint16(len(m.Completable)))
		for _, idx := range m.Completable {
			w.WriteD(idx)
		}
	}
	if len(m.VendorIDs) > 0 {
		w.WriteD(topicVending)
		w.WriteH(uint16(len(m.VendorIDs)))
		for _, id := range m.VendorIDs {
			w.WriteD(id)
		}
	}
	if m.IsAuctioneer {
		w.WriteD(topicAuctioneer)
	}
	if m.TrainingTier > 0 {
		w.WriteD(topicTraining)
		w.WriteD(m.TrainingTier)
	}
}

// --- effects ---

type GameEffectAttached struct {
	EffectTypeID     int32
	EffectID         int32
	EffectLevel      int32
	SourceID         uint64
	Announced        bool
	Duration         int32 // ms
	DamageType       int32
	AttrID           int32
	IsActive         bool
	IsBuff           bool
	IsDebuff         bool
	IsNegativeEffect bool
}

func (GameEffectAttached) MethodID() uint16 { return SvGameEffectAttached }
func (m GameEffectAttached) MarshalArgs(w *Writer) {
	w.WriteD(m.EffectTypeID)
	w.WriteD(m.EffectID)
	w.WriteD(m.EffectLevel)
	w.WriteQ(m.SourceID)
	w.WriteB(m.Announced)
	w.WriteD(m.Duration)
	w.WriteD(m.DamageType)
	w.WriteD(m.AttrID)
	w.WriteB(m.IsActive)
	w.WriteB(m.IsBuff)
	w.WriteB(m.IsDebuff)
	w.WriteB(m.IsNegativeEffect)
}

type GameEffectRemoved struct {
	EffectID int32
}

func (GameEffectRemoved) MethodID() uint16 { return SvGameEffectRemoved }
func (m GameEffectRemoved) MarshalArgs(w *Writer) {
	w.WriteD(m.EffectID)
}

type MovementModChange struct {
	MovementMod float64
}

func (MovementModChange) MethodID() uint16 { return SvMovementModChange }
func (m MovementModChange) MarshalArgs(w *Writer) {
	w.WriteF(m.MovementMod)
}

// --- world entry / advancement ---

type SetControlledActorID struct {
	EntityID uint64
}

func (SetControlledActorID) MethodID() uint16 { return SvSetControlledActorID }
func (m SetControlledActorID) MarshalArgs(w *Writer) {
	w.WriteQ(m.EntityID)
}

type SetSkyTime struct {
	RunningTime int64
}

func (SetSkyTime) MethodID() uint16 { return SvSetSkyTime }
func (m SetSkyTime) MarshalArgs(w *Writer) {
	w.WriteQ(uint64(m.RunningTime))
}

type SetCurrentContextID struct {
	MapContextID int32
}

func (SetCurrentContextID) MethodID() uint16 { return SvSetCurrentContextID }
func (m SetCurrentContextID) MarshalArgs(w *Writer) {
	w.WriteD(m.MapContextID)
}

type UpdateRegions struct {
	RegionID int32
}

func (UpdateRegions) MethodID() uint16 { return SvUpdateRegions }
func (m UpdateRegions) MarshalArgs(w *Writer) {
	w.WriteD(m.RegionID)
}

type AllCredits struct {
	Credits  int32
	Prestige int32
}

func (AllCredits) MethodID() uint16 { return SvAllCredits }
func (m AllCredits) MarshalArgs(w *Writer) {
	w.WriteD(m.Credits)
	w.WriteD(m.Prestige)
}

type AdvancementStats struct {
	Level           int32
	Experience      int32
	AttributePoints int32
	TrainPoints     int32
	SkillPoints     int32
}

func (AdvancementStats) MethodID() uint16 { return SvAdvancementStats }
func (m AdvancementStats) MarshalArgs(w *Writer) {
	w.WriteD(m.Level)
	w.WriteD(m.Experience)
	w.WriteD(m.AttributePoints)
	w.WriteD(m.TrainPoints)
	w.WriteD(m.SkillPoints)
}

// SkillLine is one learned skill on the wire.
type SkillLine struct {
	SkillID    int32
	SkillIndex int32
	SkillLevel int32
}

type Skills struct {
	Skills []SkillLine
}

func (Skills) MethodID() uint16 { return SvSkills }
func (m Skills) MarshalArgs(w *Writer) {
	w.WriteH(uint16(len(m.Skills)))
	for _, s := range m.Skills {
		w.WriteD(s.SkillID)
		w.WriteD(s.SkillIndex)
		w.WriteD(s.SkillLevel)
	}
}

// AbilityLine is one usable ability derived from a learned skill.
type AbilityLine struct {
	AbilityID    int32
	AbilityLevel int32
}

type Abilities struct {
	Abilities []AbilityLine
}

func (Abilities) MethodID() uint16 { return SvAbilities }
func (m Abilities) MarshalArgs(w *Writer) {
	w.WriteH(uint16(len(m.Abilities)))
	for _, a := range m.Abilities {
		w.WriteD(a.AbilityID)
		w.WriteD(a.AbilityLevel)
	}
}

// DrawerSlot is one ability drawer binding on the wire.
type DrawerSlot struct {
	SlotID       int32
	AbilityID    int32
	AbilityLevel int32
}

type AbilityDrawer struct {
	Slots []DrawerSlot
}

func (AbilityDrawer) MethodID() uint16 { return SvAbilityDrawer }
func (m AbilityDrawer) MarshalArgs(w *Writer) {
	w.WriteH(uint16(len(m.Slots)))
	for _, s := range m.Slots {
		w.WriteD(s.SlotID)
		w.WriteD(s.AbilityID)
		w.WriteD(s.AbilityLevel)
	}
}

type Titles struct {
	Titles []int32
}

func (Titles) MethodID() uint16 { return SvTitles }
func (m Titles) MarshalArgs(w *Writer) {
	w.WriteH(uint16(len(m.Titles)))
	for _, t := range m.Titles {
		w.WriteD(t)
	}
}

type ChangeTitle struct {
	TitleID int32
}

func (ChangeTitle) MethodID() uint16 { return SvChangeTitle }
func (m ChangeTitle) MarshalArgs(w *Writer) {
	w.WriteD(m.TitleID)
}

type TitleRemoved struct{}

func (TitleRemoved) MethodID() uint16 { return SvTitleRemoved }
func (TitleRemoved) MarshalArgs(w *Writer) {}

// --- character selection ---

type BeginCharacterSelection struct {
	FamilyName string
	CanSkip    bool
	AccountID  uint32
}

func (BeginCharacterSelection) MethodID() uint16 { return SvBeginCharacterSelection }
func (m BeginCharacterSelection) MarshalArgs(w *Writer) {
	w.WriteS(m.FamilyName)
	w.WriteB(m.CanSkip)
	w.WriteD(int32(m.AccountID))
}

type CharacterInfo struct {
	SlotID int32
	Empty  bool
}

func (CharacterInfo) MethodID() uint16 { return SvCharacterInfo }
func (m CharacterInfo) MarshalArgs(w *Writer) {
	w.WriteD(m.SlotID)
	w.WriteB(m.Empty)
}

type GeneratedCharacterName struct {
	Name string
}

func (GeneratedCharacterName) MethodID() uint16 { return SvGeneratedCharacterName }
func (m GeneratedCharacterName) MarshalArgs(w *Writer) {
	w.WriteS(m.Name)
}

type GeneratedFamilyName struct {
	Name string
}

func (GeneratedFamilyName) MethodID() uint16 { return SvGeneratedFamilyName }
func (m GeneratedFamilyName) MarshalArgs(w *Writer) {
	w.WriteS(m.Name)
}

type UserCreationFailed struct {
	Result int32
}

func (UserCreationFailed) MethodID() uint16 { return SvUserCreationFailed }
func (m UserCreationFailed) MarshalArgs(w *Writer) {
	w.WriteD(m.Result)
}

type CharacterCreateSuccess struct {
	SlotID     int32
	FamilyName string
}

func (CharacterCreateSuccess) MethodID() uint16 { return SvCharacterCreateSuccess }
func (m CharacterCreateSuccess) MarshalArgs(w *Writer) {
	w.WriteD(m.SlotID)
	w.WriteS(m.FamilyName)
}

type AbilityDrawerSlot struct {
	Slot int32
}

func (AbilityDrawerSlot) MethodID() uint16 { return SvAbilityDrawerSlot }
func (m AbilityDrawerSlot) MarshalArgs(w *Writer) {
	w.WriteD(m.Slot)
}

type WeaponDrawerSlot struct {
	Slot      int32
	Requested bool
}

func (WeaponDrawerSlot) MethodID() uint16 { return SvWeaponDrawerSlot }
func (m WeaponDrawerSlot) MarshalArgs(w *Writer) {
	w.WriteD(m.Slot)
	w.WriteB(m.Requested)
}

type AvailableAllocationPoints struct {
	AttributePoints int32
	TrainPoints     int32
	SkillPoints     int32
}

func (AvailableAllocationPoints) MethodID() uint16 { return SvAvailableAllocationPoints }
func (m AvailableAllocationPoints) MarshalArgs(w *Writer) {
	w.WriteD(m.AttributePoints)
	w.WriteD(m.TrainPoints)
	w.WriteD(m.SkillPoints)
}

// --- vendor / auctioneer ---

type OpenAuctionHouse struct{}

func (OpenAuctionHouse) MethodID() uint16 { return SvOpenAuctionHouse }
func (OpenAuctionHouse) MarshalArgs(w *Writer) {}

type Vend struct{}

func (Vend) MethodID() uint16 { return SvVend }
func (Vend) MarshalArgs(w *Writer) {}

type VisualCombatMode struct {
	InCombat bool
}

func (VisualCombatMode) MethodID() uint16 { return SvVisualCombatMode }
func (m VisualCombatMode) MarshalArgs(w *Writer) {
	w.WriteB(m.InCombat)
}

type CrouchState struct {
	Crouched bool
}

func (CrouchState) MethodID() uint16 { return SvCrouchState }
func (m CrouchState) MarshalArgs(w *Writer) {
	w.WriteB(m.Crouched)
}

// --- login ---

type LoginOK struct {
	AccountID uint32
}

func (LoginOK) MethodID() uint16 { return SvLoginOK }
func (m LoginOK) MarshalArgs(w *Writer) {
	w.WriteD(int32(m.AccountID))
}

type LoginFailed struct {
	Reason int32
}

func (LoginFailed) MethodID() uint16 { return SvLoginFailed }
func (m LoginFailed) MarshalArgs(w *Writer) {
	w.WriteD(m.Reason)
}
