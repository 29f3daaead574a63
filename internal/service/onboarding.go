package service

import (
	"context"
	"fmt"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/domain/journey"
	"github.com/luminara/journey-api/internal/ports"
)

// Onboarding performs the page-level actions that touch both containers of a scope.
type Onboarding struct {
	Session *Session
	Journey *Journey
}

// CompleteAuthentication records a successful sign-in on the journey and moves on to the welcome step.
func (o *Onboarding) CompleteAuthentication(ctx context.Context) journey.State {
	o.Journey.MarkStepComplete(ctx, journey.StepAuthentication, true)
	return o.Journey.SetCurrentStep(ctx, journey.StepWelcome)
}

// CompleteWelcome finishes the welcome step and moves on to profile setup.
func (o *Onboarding) CompleteWelcome(ctx context.Context) journey.State {
	o.Journey.MarkStepComplete(ctx, journey.StepWelcome, true)
	return o.Journey.SetCurrentStep(ctx, journey.StepProfile)
}

// SubmitProfile stores the profile in the data bag, finishes profile setup and moves on to the roadmap.
func (o *Onboarding) SubmitProfile(ctx context.Context, p journey.ProfileData) (journey.State, error) {
	data, err := p.AsUserData()
	if err != nil {
		return journey.State{}, fmt.Errorf("submit profile: %w", err)
	}
	o.Journey.UpdateUserData(ctx, data)
	o.Journey.MarkStepComplete(ctx, journey.StepProfile, true)
	return o.Journey.SetCurrentStep(ctx, journey.StepRoadmap), nil
}

// Login signs in with email credentials and completes the authentication step.
// A Logout racing the call wins; the journey is then left untouched.
func (o *Onboarding) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.User, error) {
	return o.Session.login(ctx, creds, o.completeAuthentication)
}

// Register creates an account and completes the authentication step.
func (o *Onboarding) Register(ctx context.Context, reg domainauth.Registration) (domainauth.User, error) {
	return o.Session.register(ctx, reg, o.completeAuthentication)
}

// LoginWithGoogle finishes a federated sign-in and completes the authentication step.
func (o *Onboarding) LoginWithGoogle(ctx context.Context, in ports.ExchangeInput) (domainauth.User, error) {
	return o.Session.loginWithGoogle(ctx, in, o.completeAuthentication)
}

func (o *Onboarding) completeAuthentication(ctx context.Context) {
	o.CompleteAuthentication(ctx)
}

// Logout signs out and resets the in-memory journey; both persisted records are gone afterwards.
func (o *Onboarding) Logout(ctx context.Context) {
	o.Session.logout(ctx, o.Journey.Reset)
}
