package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/logger"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Attack resolves one melee attack from attacker against defender and returns
// the events it produced: always a description of the blow, then a death
// notice when the defender's HP drops to 0 or below. Only the defender's HP
// is written. Either side lacking a Combat component yields nil.
func Attack(w *ecs.World, formula DamageFormula, attackerID, defenderID ecs.EntityID) []TurnResult {
	atkComp := w.Get(attackerID, component.CCombat)
	defComp := w.Get(defenderID, component.CCombat)
	if atkComp == nil || defComp == nil {
		return nil
	}
	if formula == nil {
		formula = Subtractive{}
	}

	atk := atkComp.(component.Combat)
	def := defComp.(component.Combat)
	attackerName := Capitalize(EntityName(w, attackerID))
	defenderName := EntityName(w, defenderID)

	dmg := formula.Damage(atk, def)
	hpBefore := def.HP

	var results []TurnResult
	if dmg > 0 {
		def.HP -= dmg
		w.Add(defenderID, def)
		results = append(results, Message(fmt.Sprintf("%s attacks %s for %d hit points.", attackerName, defenderName, dmg)))
	} else {
		results = append(results, Message(fmt.Sprintf("%s attacks %s but does no damage.", attackerName, defenderName)))
	}
	if def.HP <= 0 {
		results = append(results, Death(defenderID))
	}

	logger.Component("combat").WithFields(logrus.Fields{
		"attacker":    attackerName,
		"defender":    defenderName,
		"power":       atk.Power,
		"defense":     def.Defense,
		"damage":      dmg,
		"hp_before":   hpBefore,
		"hp_after":    def.HP,
		"target_died": def.HP <= 0,
	}).Debug("Attack resolved.")

	return results
}

// EntityName returns the display name of id, falling back to its glyph.
func EntityName(w *ecs.World, id ecs.EntityID) string {
	if c := w.Get(id, component.CName); c != nil {
		return c.(component.Name).Text
	}
	if c := w.Get(id, component.CRenderable); c != nil {
		return c.(component.Renderable).Glyph
	}
	return "something"
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
