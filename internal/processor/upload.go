package processor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

// stageUpload makes the job's audio available on disk. Uploaded bodies are
// stored under a fresh uuid name and scheduled for removal; existing paths
// are used as they are.
func (p *implProcessor) stageUpload(ctx context.Context, job domain.AudioJob, stack *releaseStack) (string, error) {
	if job.Body == nil {
		if job.Path == "" {
			return "", domain.NewStageError(domain.ErrStageUpload, domain.KindValidationError, "no audio given", nil)
		}
		if _, err := os.Stat(job.Path); err != nil {
			return "", domain.NewStageError(domain.ErrStageUpload, domain.KindIOError, "audio file not readable", err)
		}
		return job.Path, nil
	}

	if strings.TrimSpace(job.Filename) == "" {
		return "", domain.NewStageError(domain.ErrStageUpload, domain.KindValidationError, "empty filename", nil)
	}

	dir := p.cfg.Paths.Uploads
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", domain.NewStageError(domain.ErrStageUpload, domain.KindIOError, "create uploads dir", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(job.Filename)))
	path := filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", domain.NewStageError(domain.ErrStageUpload, domain.KindIOError, "create upload file", err)
	}
	stack.push("remove upload "+path, removeFile(path))

	n, err := io.Copy(f, job.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", domain.NewStageError(domain.ErrStageUpload, domain.KindIOError, "save upload", err)
	}

	p.logger.Info(ctx, "Saved upload %s (%d bytes) as %s", job.Filename, n, path)
	return path, nil
}
