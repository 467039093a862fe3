package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/repo"
	"github.com/careercompass/compass/internal/service"
)

const defaultReindexBatch = 50

// ChunkReindexJob backfills vector chunks for profiles that carry transcript
// text but have no chunks, which happens when ingestion fails between the
// transcript commit and the chunk commit.
type ChunkReindexJob struct {
	profiles *repo.ProfileRepo
	chunks   *repo.ChunkRepo
	ingest   *service.IngestService
	batch    int
}

func NewChunkReindexJob(profiles *repo.ProfileRepo, chunks *repo.ChunkRepo, ingest *service.IngestService, batch int) *ChunkReindexJob {
	if batch <= 0 {
		batch = defaultReindexBatch
	}
	return &ChunkReindexJob{profiles: profiles, chunks: chunks, ingest: ingest, batch: batch}
}

func (j *ChunkReindexJob) Name() string {
	return "chunk_reindex"
}

func (j *ChunkReindexJob) Run(ctx context.Context) error {
	if j.profiles == nil || j.chunks == nil || j.ingest == nil {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	userIDs, err := j.profiles.ListWithTranscript(ctx, j.batch)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		count, err := j.chunks.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		profile, err := j.profiles.Get(ctx, userID)
		if err != nil {
			logger.Warn("reindex skipped user", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if _, err := j.ingest.RebuildChunks(ctx, userID, profile.TranscriptText); err != nil {
			logger.Warn("reindex failed for user", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}
