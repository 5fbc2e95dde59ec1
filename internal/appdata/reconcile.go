package appdata

import "sort"

// Reconciliation compares the recorded mods with the folders found on disk.
type Reconciliation struct {
	// Untracked are folders present in the mods dir that no record points at.
	Untracked []string
	// Missing are mod ids whose recorded folder is not on disk.
	Missing []uint64
}

// Clean reports whether records and folders agree.
func (r *Reconciliation) Clean() bool {
	return len(r.Untracked) == 0 && len(r.Missing) == 0
}

// Reconcile matches state's records against folders, the directory names
// currently in the mods dir. Folder names are compared byte for byte.
func Reconcile(state *AppState, folders []string) *Reconciliation {
	onDisk := make(map[string]bool, len(folders))
	for _, f := range folders {
		onDisk[f] = true
	}

	recorded := make(map[string]bool, len(state.InstalledMods))
	r := &Reconciliation{}
	for _, id := range state.ModIDs() {
		folder := state.InstalledMods[id].Folder
		recorded[folder] = true
		if !onDisk[folder] {
			r.Missing = append(r.Missing, id)
		}
	}

	for _, f := range folders {
		if !recorded[f] {
			r.Untracked = append(r.Untracked, f)
		}
	}
	sort.Strings(r.Untracked)
	return r
}
