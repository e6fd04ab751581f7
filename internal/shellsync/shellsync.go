// Package shellsync derives the topic shell set from the topic lists and
// merges it against the shells already in the bank. Sync is a pure function
// of its inputs: all fetching is the caller's responsibility.
package shellsync

import (
	"time"

	"github.com/studyvault/recordsync/internal/shade"
	"github.com/studyvault/recordsync/internal/standardize"
	"github.com/studyvault/recordsync/internal/types"
)

// Palette supplies base colours for subjects, in assignment order.
// Wraps around when exhausted.
var Palette = []string{
	"#e91e63", "#2196f3", "#4caf50", "#ff9800", "#9c27b0",
	"#00bcd4", "#f44336", "#8bc34a", "#3f51b5", "#ffc107",
	"#009688", "#795548", "#607d8b", "#673ab7", "#cddc39",
}

// Result is the derived state Sync hands back for one preserved write.
type Result struct {
	Shells   []types.BankItem
	ColorMap types.ColorMap
	Metadata []types.TopicMetadata
}

// Sync derives shells from lists and merges them with the existing shell
// subset of the bank. Existing shells keep their Cards backlog and
// CreatedAt; shells no longer referenced by any list are preserved as-is.
// Nothing is ever deleted here.
func Sync(lists []types.TopicList, existingBank []types.BankItem, colorMap types.ColorMap, metadata []types.TopicMetadata) Result {
	return syncAt(lists, existingBank, colorMap, metadata, time.Now().UTC())
}

func syncAt(lists []types.TopicList, existingBank []types.BankItem, colorMap types.ColorMap, metadata []types.TopicMetadata, now time.Time) Result {
	cm := colorMap.Clone()
	if cm == nil {
		cm = types.ColorMap{}
	}
	assignSubjectColors(cm, lists)

	// Derive the new shell per topic, collapsing duplicate ids to the
	// first occurrence within this run.
	derived := make([]*types.TopicShell, 0)
	seen := make(map[string]bool)
	for _, list := range lists {
		sc := cm[list.Subject]
		shades := shade.Shades(sc.Base, len(list.Topics))
		for i, topic := range list.Topics {
			id := topic.ID
			if id == "" {
				id = TopicID(list.Subject, topic.Name)
			}
			if seen[id] {
				continue
			}
			seen[id] = true

			color := sc.Base
			if len(shades) > 0 {
				color = shades[i%len(shades)]
			}
			if sc.Topics == nil {
				sc.Topics = map[string]string{}
			}
			sc.Topics[topic.Name] = color
			cm[list.Subject] = sc

			items := standardize.Standardize([]standardize.Raw{{
				"type":         string(types.KindTopic),
				"id":           id,
				"subject":      list.Subject,
				"name":         topic.Name,
				"examBoard":    list.ExamBoard,
				"examType":     list.ExamType,
				"color":        color,
				"subjectColor": sc.Base,
			}})
			if len(items) == 1 && items[0].Kind == types.KindTopic {
				derived = append(derived, items[0].Shell)
			}
		}
	}

	return Result{
		Shells:   mergeShells(existingBank, derived),
		ColorMap: cm,
		Metadata: mergeMetadata(metadata, derived, now),
	}
}

// assignSubjectColors gives every subject missing from the map the next
// unused palette colour, wrapping around once every colour is taken.
func assignSubjectColors(cm types.ColorMap, lists []types.TopicList) {
	used := make(map[string]bool, len(cm))
	for _, sc := range cm {
		used[sc.Base] = true
	}
	for _, list := range lists {
		if _, ok := cm[list.Subject]; ok {
			continue
		}
		base := Palette[len(cm)%len(Palette)]
		for _, c := range Palette {
			if !used[c] {
				base = c
				break
			}
		}
		used[base] = true
		cm[list.Subject] = types.SubjectColors{Base: base, Topics: map[string]string{}}
	}
}

// mergeShells folds the derived shells into the existing shell subset of
// the bank, keyed by id. The derived shell's metadata wins; Cards and
// CreatedAt are carried over unchanged and IsEmpty is recomputed from the
// carried backlog. Existing shells with no derived counterpart survive.
func mergeShells(existingBank []types.BankItem, derived []*types.TopicShell) []types.BankItem {
	derivedByID := make(map[string]*types.TopicShell, len(derived))
	for _, s := range derived {
		derivedByID[s.ID] = s
	}

	out := make([]types.BankItem, 0, len(derived))
	taken := make(map[string]bool)
	for _, item := range existingBank {
		if item.Kind != types.KindTopic || item.Shell == nil {
			continue
		}
		old := item.Shell
		nw, ok := derivedByID[old.ID]
		if !ok {
			out = append(out, types.NewShellItem(old.Clone()))
			continue
		}
		taken[old.ID] = true
		merged := nw.Clone()
		merged.Cards = append([]string(nil), old.Cards...)
		merged.CreatedAt = old.CreatedAt
		merged.IsEmpty = len(merged.Cards) == 0
		out = append(out, types.NewShellItem(merged))
	}
	for _, s := range derived {
		if !taken[s.ID] {
			out = append(out, types.NewShellItem(s))
		}
	}
	return out
}

// mergeMetadata updates existing rows in place and appends rows for new
// topics. Rows are keyed by topic id, falling back to subject when a row
// carries no id. Nothing is removed.
func mergeMetadata(existing []types.TopicMetadata, derived []*types.TopicShell, now time.Time) []types.TopicMetadata {
	key := func(m types.TopicMetadata) string {
		if m.TopicID != "" {
			return m.TopicID
		}
		return "subject:" + m.Subject
	}

	out := make([]types.TopicMetadata, len(existing))
	copy(out, existing)
	index := make(map[string]int, len(out))
	for i, m := range out {
		index[key(m)] = i
	}

	for _, s := range derived {
		row := types.TopicMetadata{
			TopicID:   s.ID,
			Name:      s.Name,
			Subject:   s.Subject,
			ExamBoard: s.ExamBoard,
			ExamType:  s.ExamType,
			UpdatedAt: now,
		}
		if i, ok := index[key(row)]; ok {
			out[i] = row
			continue
		}
		index[key(row)] = len(out)
		out = append(out, row)
	}
	return out
}
