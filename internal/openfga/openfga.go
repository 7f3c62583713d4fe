// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
)

type Config struct {
	ApiURL      string
	StoreID     string
	ApiToken    string
	AuthModelID string

	Tracer  tracing.TracingInterface
	Monitor monitoring.MonitorInterface
	Logger  logging.LoggerInterface
}

type Client struct {
	c *client.OpenFgaClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) ReadModel(ctx context.Context) (*fga.AuthorizationModel, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ReadModel")
	defer span.End()

	authModel, err := c.c.ReadAuthorizationModel(ctx).Execute()
	if err != nil {
		c.reportAvailability(0)
		return nil, fmt.Errorf("failed to read authorization model: %w", err)
	}

	c.reportAvailability(1)

	return authModel.AuthorizationModel, nil
}

// CompareModel reports whether the model stored in OpenFGA matches model.
// Ids are not compared.
func (c *Client) CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CompareModel")
	defer span.End()

	current, err := c.ReadModel(ctx)
	if err != nil {
		return false, err
	}

	if current == nil {
		return false, nil
	}

	a, err := json.Marshal(fga.AuthorizationModel{SchemaVersion: current.SchemaVersion, TypeDefinitions: current.TypeDefinitions, Conditions: current.Conditions})
	if err != nil {
		return false, err
	}

	b, err := json.Marshal(fga.AuthorizationModel{SchemaVersion: model.SchemaVersion, TypeDefinitions: model.TypeDefinitions, Conditions: model.Conditions})
	if err != nil {
		return false, err
	}

	var ja, jb interface{}
	_ = json.Unmarshal(a, &ja)
	_ = json.Unmarshal(b, &jb)

	return reflect.DeepEqual(ja, jb), nil
}

func (c *Client) WriteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteTuple")
	defer span.End()

	_, err := c.c.WriteTuples(ctx).Body(client.ClientWriteTuplesBody{
		{User: user, Relation: relation, Object: object},
	}).Execute()

	if err != nil {
		return fmt.Errorf("failed to write tuple %s %s %s: %w", user, relation, object, err)
	}

	return nil
}

func (c *Client) DeleteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuple")
	defer span.End()

	_, err := c.c.DeleteTuples(ctx).Body(client.ClientDeleteTuplesBody{
		{User: user, Relation: relation, Object: object},
	}).Execute()

	if err != nil {
		return fmt.Errorf("failed to delete tuple %s %s %s: %w", user, relation, object, err)
	}

	return nil
}

func (c *Client) CreateStore(ctx context.Context, name string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CreateStore")
	defer span.End()

	store, err := c.c.CreateStore(ctx).Body(client.ClientCreateStoreRequest{Name: name}).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to create store: %w", err)
	}

	return store.GetId(), nil
}

func (c *Client) SetStoreID(ctx context.Context, storeID string) error {
	return c.c.SetStoreId(storeID)
}

func (c *Client) WriteModel(ctx context.Context, model *client.ClientWriteAuthorizationModelRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteModel")
	defer span.End()

	resp, err := c.c.WriteAuthorizationModel(ctx).Body(*model).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to write authorization model: %w", err)
	}

	return resp.GetAuthorizationModelId(), nil
}

func (c *Client) reportAvailability(v float64) {
	c.monitor.SetDependencyAvailability(map[string]string{"component": "openfga"}, v)
}

func NewClient(cfg *Config) (*Client, error) {
	fgaClient, err := client.NewSdkClient(
		&client.ClientConfiguration{
			ApiUrl:               cfg.ApiURL,
			StoreId:              cfg.StoreID,
			AuthorizationModelId: cfg.AuthModelID,
			Credentials: &credentials.Credentials{
				Method: credentials.CredentialsMethodApiToken,
				Config: &credentials.Config{
					ApiToken: cfg.ApiToken,
				},
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create openfga client: %w", err)
	}

	c := new(Client)
	c.c = fgaClient
	c.tracer = cfg.Tracer
	c.monitor = cfg.Monitor
	c.logger = cfg.Logger

	return c, nil
}
