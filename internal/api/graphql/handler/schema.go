package handler

import (
	graphql "github.com/graph-gophers/graphql-go"
)

const schemaSDL = `
schema {
	query: Query
	mutation: Mutation
}

type User {
	id: ID!
	name: String!
	email: String!
	role: String!
}

type AuthPayload {
	token: String!
	user: User!
}

type Query {
	me: User
}

type Mutation {
	register(name: String!, email: String!, password: String!, role: String!): AuthPayload
	login(email: String!, password: String!): AuthPayload
	updateProfile(name: String, email: String, password: String, role: String): User
}
`

// NewSchema parses the API schema and binds it to resolver.
func NewSchema(resolver *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, resolver, graphql.MaxDepth(15))
}
