package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parget/parget/internal/utils"
)

// StateFilePath returns the state file for an output path. One state file
// exists per output path, named deterministically beside it.
func StateFilePath(outputPath string) string {
	return outputPath + ".state"
}

// SaveState writes the plan with its current per-segment downloaded counts.
func SaveState(plan *DownloadPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("error encoding state: %v", err)
	}
	if err := os.WriteFile(StateFilePath(plan.OutputPath), data, 0644); err != nil {
		return fmt.Errorf("error writing state file: %v", err)
	}
	return nil
}

// LoadState returns the persisted plan for an output path, or nil when no
// usable state file exists. A present file is trusted verbatim; it is never
// re-validated against the remote resource.
func LoadState(outputPath string) (*DownloadPlan, error) {
	log := utils.GetLogger("state")
	data, err := os.ReadFile(StateFilePath(outputPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading state file: %v", err)
	}
	var plan DownloadPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		log.Debug().Err(err).Str("file", StateFilePath(outputPath)).Msg("Ignoring unparseable state file")
		return nil, nil
	}
	log.Debug().Str("file", StateFilePath(outputPath)).Int64("transferred", plan.Transferred()).Msg("Loaded persisted state")
	return &plan, nil
}

// RemoveState deletes the state file; a missing file is not an error.
func RemoveState(outputPath string) error {
	if err := os.Remove(StateFilePath(outputPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
