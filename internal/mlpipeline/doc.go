// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package mlpipeline retrains and versions the save-prediction model.
//
// A run moves through fetching, engineering, training, evaluating, and
// versioning, then either promotes the new model or records it and
// leaves production untouched. Promotion compares held-out F1 against
// the current production entry; ties go to the newer model.
//
// # Concurrency
//
// A single mutex guards the whole run, acquired with TryLock: a trigger
// that arrives during an active run fails fast with
// ErrTrainingInProgress instead of queueing. The serving side reads the
// promoted model through LiveModel, an atomic pointer swap, so requests
// never block on training.
//
// # Persistence
//
// Trained artifacts are gob-encoded, compressed, and checksummed on
// disk, one file per version. The registry JSON lists every version and
// the production tag; it is rewritten atomically so a crash mid-run
// cannot corrupt it. On startup the production artifact is loaded back
// into the serving handle.
package mlpipeline
