package interop

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

const tracerName = "github.com/DangKhoi2208/imago-core/internal/core/interop"

// maxStaleAttempts bounds the re-read/re-apply loop on stale writes.
const maxStaleAttempts = 3

// ProfileInterop is the auth-gated entry point of the profile domain.
// It owns the follow/unfollow algorithm and the merge-on-update behaviour.
type ProfileInterop struct {
	profiles  ports.ProfileUseCase
	verifier  ports.TokenVerifier
	publisher ports.EventPublisher // optional
	graph     ports.FollowGraph    // optional
	tracer    trace.Tracer
}

func NewProfileInterop(
	profiles ports.ProfileUseCase,
	verifier ports.TokenVerifier,
	publisher ports.EventPublisher,
	graph ports.FollowGraph,
) *ProfileInterop {
	return &ProfileInterop{
		profiles:  profiles,
		verifier:  verifier,
		publisher: publisher,
		graph:     graph,
		tracer:    otel.Tracer(tracerName),
	}
}

// Create builds the profile from the token: id and email are never taken
// from the payload, and adjacency sets always start empty.
func (i *ProfileInterop) Create(ctx context.Context, token string, in *domain.Profile) (*domain.Profile, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:        identity.SubjectID,
		Email:     identity.Email,
		Bio:       in.Bio,
		PhotoURL:  in.PhotoURL,
		Phone:     in.Phone,
		UserName:  in.UserName,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Category:  in.Category.Clone(),
		Followers: domain.IDSet{},
		Following: domain.IDSet{},
		Gender:    in.Gender,
	}
	if err := i.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update is a partial patch over the caller's stored profile. A concurrent
// follow touching the caller only bumps the version, so the patch is
// re-applied on a fresh read.
func (i *ProfileInterop) Update(ctx context.Context, token string, patch domain.ProfilePatch) (*domain.Profile, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return retryStale(func() (*domain.Profile, error) {
		profile, err := i.profiles.Get(ctx, identity.SubjectID)
		if err != nil {
			return nil, err
		}
		profile.Apply(patch)
		if err := i.profiles.Update(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	})
}

func (i *ProfileInterop) Get(ctx context.Context, token, id string) (*domain.Profile, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.profiles.Get(ctx, id)
}

func (i *ProfileInterop) GetAll(ctx context.Context, token string) ([]*domain.Profile, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.profiles.GetAll(ctx)
}

func (i *ProfileInterop) GetMine(ctx context.Context, token string) (*domain.Profile, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return i.profiles.Get(ctx, identity.SubjectID)
}

func (i *ProfileInterop) Relation(ctx context.Context, token, otherProfileID string) (*domain.RelationStatus, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	me, err := i.profiles.Get(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}
	other, err := i.profiles.Get(ctx, otherProfileID)
	if err != nil {
		return nil, err
	}
	status := me.Relation(other)
	return &status, nil
}

// --- FOLLOW GRAPH ---

// Follow adds the edge profileID -> otherProfileID on both profiles.
//
// Each half is added only if absent, so a half-applied edge left by an
// earlier failure is completed here and the call reports true. When both
// halves are already present nothing is written and the call reports false.
func (i *ProfileInterop) Follow(ctx context.Context, token, profileID, otherProfileID string) (bool, error) {
	ctx, span := i.startSpan(ctx, "ProfileInterop.Follow", profileID, otherProfileID)
	defer span.End()

	changed, err := i.follow(ctx, token, profileID, otherProfileID)
	endSpan(span, changed, err)
	return changed, err
}

func (i *ProfileInterop) follow(ctx context.Context, token, profileID, otherProfileID string) (bool, error) {
	if err := i.authorizeActor(ctx, token, profileID); err != nil {
		return false, err
	}
	if profileID == otherProfileID {
		return false, domain.NewConflictError(domain.EntityProfile, "Cannot follow yourself")
	}
	return retryStale(func() (bool, error) {
		return i.applyFollow(ctx, profileID, otherProfileID)
	})
}

func (i *ProfileInterop) applyFollow(ctx context.Context, profileID, otherProfileID string) (bool, error) {
	profile, err := i.profiles.Get(ctx, profileID)
	if err != nil {
		return false, err
	}
	other, err := i.profiles.Get(ctx, otherProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.NewNotFoundError(domain.EntityProfile, otherProfileID, "Target profile not found")
		}
		return false, err
	}

	addedFollowing := profile.Following.Add(otherProfileID)
	addedFollower := other.Followers.Add(profileID)
	if !addedFollowing && !addedFollower {
		return false, nil
	}
	if addedFollowing != addedFollower {
		slog.WarnContext(ctx, "Repairing half-applied follow edge",
			"profile_id", profileID, "other_profile_id", otherProfileID)
	}

	if err := i.profiles.UpdatePair(ctx, profile, other); err != nil {
		return false, err
	}

	i.afterFollow(ctx, profileID, otherProfileID)
	return true, nil
}

// Unfollow removes the edge profileID -> otherProfileID from both profiles.
// A missing edge is a no-op. A missing target only clears the dangling half on the caller.
func (i *ProfileInterop) Unfollow(ctx context.Context, token, profileID, otherProfileID string) (bool, error) {
	ctx, span := i.startSpan(ctx, "ProfileInterop.Unfollow", profileID, otherProfileID)
	defer span.End()

	changed, err := i.unfollow(ctx, token, profileID, otherProfileID)
	endSpan(span, changed, err)
	return changed, err
}

func (i *ProfileInterop) unfollow(ctx context.Context, token, profileID, otherProfileID string) (bool, error) {
	if err := i.authorizeActor(ctx, token, profileID); err != nil {
		return false, err
	}
	if profileID == otherProfileID {
		return false, nil
	}
	return retryStale(func() (bool, error) {
		return i.applyUnfollow(ctx, profileID, otherProfileID)
	})
}

func (i *ProfileInterop) applyUnfollow(ctx context.Context, profileID, otherProfileID string) (bool, error) {
	profile, err := i.profiles.Get(ctx, profileID)
	if err != nil {
		return false, err
	}
	other, err := i.profiles.Get(ctx, otherProfileID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	if other == nil {
		if !profile.Following.Remove(otherProfileID) {
			return false, nil
		}
		if err := i.profiles.Update(ctx, profile); err != nil {
			return false, err
		}
		i.afterUnfollow(ctx, profileID, otherProfileID)
		return true, nil
	}

	removedFollowing := profile.Following.Remove(otherProfileID)
	removedFollower := other.Followers.Remove(profileID)
	if !removedFollowing && !removedFollower {
		return false, nil
	}

	if err := i.profiles.UpdatePair(ctx, profile, other); err != nil {
		return false, err
	}

	i.afterUnfollow(ctx, profileID, otherProfileID)
	return true, nil
}

// retryStale re-runs fn while it loses an optimistic-concurrency race.
// fn re-reads the profiles it writes on every attempt.
func retryStale[T any](fn func() (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for attempt := 0; attempt < maxStaleAttempts; attempt++ {
		out, err = fn()
		if !errors.Is(err, domain.ErrStaleWrite) {
			return out, err
		}
	}
	return out, err
}

// authorizeActor ties the acting profile to the token subject.
func (i *ProfileInterop) authorizeActor(ctx context.Context, token, profileID string) error {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if profileID == "" || profileID != identity.SubjectID {
		return domain.NewAuthError("Profile does not belong to the caller", nil)
	}
	return nil
}

// --- SIDE EFFECTS (best effort) ---

func (i *ProfileInterop) afterFollow(ctx context.Context, actorID, targetID string) {
	if i.graph != nil {
		if err := i.graph.Link(ctx, actorID, targetID); err != nil {
			slog.ErrorContext(ctx, "Follow graph projection failed", "error", err, "actor_id", actorID, "target_id", targetID)
		}
	}
	if i.publisher != nil {
		if err := i.publisher.PublishFollowed(ctx, actorID, targetID); err != nil {
			slog.ErrorContext(ctx, "Publishing follow event failed", "error", err, "actor_id", actorID, "target_id", targetID)
		}
	}
}

func (i *ProfileInterop) afterUnfollow(ctx context.Context, actorID, targetID string) {
	if i.graph != nil {
		if err := i.graph.Unlink(ctx, actorID, targetID); err != nil {
			slog.ErrorContext(ctx, "Unfollow graph projection failed", "error", err, "actor_id", actorID, "target_id", targetID)
		}
	}
	if i.publisher != nil {
		if err := i.publisher.PublishUnfollowed(ctx, actorID, targetID); err != nil {
			slog.ErrorContext(ctx, "Publishing unfollow event failed", "error", err, "actor_id", actorID, "target_id", targetID)
		}
	}
}

func (i *ProfileInterop) startSpan(ctx context.Context, name, actorID, targetID string) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("profile.actor_id", actorID),
		attribute.String("profile.target_id", targetID),
	))
}

func endSpan(span trace.Span, changed bool, err error) {
	span.SetAttributes(attribute.Bool("profile.edge_changed", changed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
