package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/EasterCompany/package-builder-service/internal/dashboard"
	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
	"github.com/EasterCompany/package-builder-service/middleware"
	"github.com/EasterCompany/package-builder-service/utils"
)

// FuelReport is the dashboard gauge plus the decay countdown.
type FuelReport struct {
	UserID string `json:"userId"`
	fuel.State
	NextDecayIn      string `json:"nextDecayIn"`
	NextDecaySeconds int64  `json:"nextDecaySeconds"`
}

func fuelState(ctx context.Context, p dashboard.Provider, clock *fuel.DecayClock, userID string) (fuel.State, error) {
	profile, err := p.Profile(ctx, userID)
	if err != nil {
		return fuel.State{}, err
	}
	activity, err := p.Activity(ctx, userID)
	if err != nil {
		return fuel.State{}, err
	}
	return fuel.Score(profile, activity, clock.Total()), nil
}

// ownUser rejects tokens issued to a different member.
func ownUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := mux.Vars(r)["userID"]
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok && claims.Subject != userID {
		utils.WriteError(w, http.StatusForbidden, "token does not belong to this member")
		return "", false
	}
	return userID, true
}

// FuelHandler returns the member's fuel gauge.
func FuelHandler(p dashboard.Provider, clock *fuel.DecayClock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownUser(w, r)
		if !ok {
			return
		}
		state, err := fuelState(r.Context(), p, clock, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		left := fuel.UntilNextDecay(time.Now())
		utils.WriteJSON(w, http.StatusOK, FuelReport{
			UserID:           userID,
			State:            state,
			NextDecayIn:      left.String(),
			NextDecaySeconds: int64(left / time.Second),
		})
	}
}

// FuelBadgeHandler renders the gauge as a PNG.
func FuelBadgeHandler(p dashboard.Provider, clock *fuel.DecayClock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownUser(w, r)
		if !ok {
			return
		}
		state, err := fuelState(r.Context(), p, clock, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		png, err := utils.RenderFuelBadge(state)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(png)
	}
}

// ActivityHandler records member activity and returns the new gauge.
func ActivityHandler(log *dashboard.ActivityLog, p dashboard.Provider, clock *fuel.DecayClock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownUser(w, r)
		if !ok {
			return
		}
		var req struct {
			Kind  string `json:"kind"`
			Count int    `json:"count"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if _, err := log.Record(r.Context(), userID, req.Kind, req.Count); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		state, err := fuelState(r.Context(), p, clock, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, FuelReport{UserID: userID, State: state})
	}
}

// ProfileStore writes member profiles and user records.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, userID string, p remote.Profile) (remote.Profile, remote.Source)
	UpdateUser(ctx context.Context, u remote.User) (remote.User, remote.Source)
}

// ProfileReport is the stored profile and the gauge it now earns.
type ProfileReport struct {
	Profile remote.Profile `json:"profile"`
	Source  remote.Source  `json:"source"`
	Fuel    FuelReport     `json:"fuel"`
}

// ProfileHandler replaces the member's profile. Name or email changes are
// written to the user record as well.
func ProfileHandler(store ProfileStore, p dashboard.Provider, clock *fuel.DecayClock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownUser(w, r)
		if !ok {
			return
		}
		var in remote.Profile
		if !decodeBody(w, r, &in) {
			return
		}
		ctx := r.Context()
		out, src := store.UpdateProfile(ctx, userID, in)
		if in.FirstName != "" || in.LastName != "" || in.Email != "" {
			store.UpdateUser(ctx, remote.User{
				ID:        userID,
				Email:     in.Email,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				UserType:  in.UserType,
			})
		}
		state, err := fuelState(ctx, p, clock, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, ProfileReport{
			Profile: out,
			Source:  src,
			Fuel:    FuelReport{UserID: userID, State: state},
		})
	}
}
