package handler

import (
	"github.com/dtroode/roleauth/internal/model"
	graphql "github.com/graph-gophers/graphql-go"
)

type userResolver struct {
	view model.UserView
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.view.ID.String()) }
func (u *userResolver) Name() string   { return u.view.Name }
func (u *userResolver) Email() string  { return u.view.Email }
func (u *userResolver) Role() string   { return string(u.view.Role) }

type authPayloadResolver struct {
	result model.AuthResult
}

func (p *authPayloadResolver) Token() string { return p.result.Token }

func (p *authPayloadResolver) User() *userResolver {
	return &userResolver{view: p.result.User}
}
