package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/assetd-io/assetd/internal/models"
)

func (suite *HandlerTestSuite) TestCreatePartsBulk() {
	assert := suite.Assert()
	require := suite.Require()

	reqBody, err := json.Marshal(models.AddParts{
		SerialNumbers: []string{"part-1", "part-2", "part-3"},
		OrderNumber:   "zam-55",
		WarehouseID:   suite.testWarehouse.ID,
	})
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost,
		"/", "/",
		suite.api.CreateParts, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusCreated, res.Code, "HTTP error: %s", string(body))

	var parts []models.Part
	require.NoError(json.Unmarshal(body, &parts))
	require.Len(parts, 3)
	for _, part := range parts {
		assert.Equal("zam-55", part.OrderNumber)
		assert.Nil(part.AssetID)
	}
}

func (suite *HandlerTestSuite) TestCreatePartsValidation() {
	assert := suite.Assert()
	require := suite.Require()

	// duplicate serial within one request
	reqBody, err := json.Marshal(models.AddParts{
		SerialNumbers: []string{"part-x", "part-x"},
		WarehouseID:   suite.testWarehouse.ID,
	})
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateParts, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	assert.Equal(http.StatusBadRequest, res.Code)

	// serial already taken
	reqBody, err = json.Marshal(models.AddParts{
		SerialNumbers: []string{"part-y"},
		WarehouseID:   suite.testWarehouse.ID,
	})
	require.NoError(err)
	_, res, err = suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateParts, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	require.Equal(http.StatusCreated, res.Code)

	reqBody, err = json.Marshal(models.AddParts{
		SerialNumbers: []string{"part-y"},
		WarehouseID:   suite.testWarehouse.ID,
	})
	require.NoError(err)
	_, res, err = suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateParts, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	assert.Equal(http.StatusConflict, res.Code)
}

func (suite *HandlerTestSuite) exchangeParts(assetID string, req models.ExchangeParts) (*models.ExchangeResult, *http.Response) {
	require := suite.Require()
	reqBody, err := json.Marshal(req)
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost,
		"/:id/exchange-parts", "/"+assetID+"/exchange-parts",
		suite.api.ExchangeAssetParts, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)

	var outcome models.ExchangeResult
	if res.Code == http.StatusOK {
		require.NoError(json.Unmarshal(body, &outcome))
	}
	return &outcome, res.Result()
}

func (suite *HandlerTestSuite) TestExchangeParts() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-exch-1"),
		OrderNumber:  "zam-777",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	attached := models.Part{
		SerialNumber: "part-old",
		AssetID:      &asset.ID,
		WarehouseID:  suite.testWarehouse.ID,
	}
	require.NoError(suite.api.db.Create(&attached).Error)
	free := models.Part{
		SerialNumber: "part-free",
		WarehouseID:  suite.testWarehouse.ID,
	}
	require.NoError(suite.api.db.Create(&free).Error)

	outcome, httpRes := suite.exchangeParts(asset.ID.String(), models.ExchangeParts{
		Attach: []string{"part-free", "part-new"},
		Detach: []string{"part-old"},
	})
	require.Equal(http.StatusOK, httpRes.StatusCode)
	assert.ElementsMatch([]string{"part-free", "part-new"}, outcome.Attached)
	assert.Equal([]string{"part-old"}, outcome.Detached)
	assert.Equal([]string{"part-new"}, outcome.Created)

	// the detached part still exists, with no asset
	var old models.Part
	require.NoError(suite.api.db.First(&old, "sn = ?", "part-old").Error)
	assert.Nil(old.AssetID)

	// the created part inherits the asset's order number, service fields
	// and warehouse
	var created models.Part
	require.NoError(suite.api.db.First(&created, "sn = ?", "part-new").Error)
	require.NotNil(created.AssetID)
	assert.Equal(asset.ID, *created.AssetID)
	assert.Equal("zam-777", created.OrderNumber)
	assert.Equal(suite.testWarehouse.ID, created.WarehouseID)
}

func (suite *HandlerTestSuite) TestExchangePartsOverlapRejected() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-exch-2"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	_, httpRes := suite.exchangeParts(asset.ID.String(), models.ExchangeParts{
		Attach: []string{"part-z"},
		Detach: []string{"part-z"},
	})
	assert.Equal(http.StatusBadRequest, httpRes.StatusCode)
}

func (suite *HandlerTestSuite) TestExchangePartsRollsBackOnError() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-exch-3"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	other, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-exch-4"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	taken := models.Part{
		SerialNumber: "part-taken",
		AssetID:      &other.ID,
		WarehouseID:  suite.testWarehouse.ID,
	}
	require.NoError(suite.api.db.Create(&taken).Error)

	// attaching a part held by another asset fails, and the part created
	// earlier in the same request is rolled back with it
	_, httpRes := suite.exchangeParts(asset.ID.String(), models.ExchangeParts{
		Attach: []string{"part-fresh", "part-taken"},
	})
	assert.Equal(http.StatusConflict, httpRes.StatusCode)

	var count int64
	require.NoError(suite.api.db.Model(&models.Part{}).
		Where("sn = ?", "part-fresh").Count(&count).Error)
	assert.Equal(int64(0), count)
}

func (suite *HandlerTestSuite) TestExchangePartsDetachNotAttached() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-exch-5"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	_, httpRes := suite.exchangeParts(asset.ID.String(), models.ExchangeParts{
		Detach: []string{"part-nowhere"},
	})
	assert.Equal(http.StatusBadRequest, httpRes.StatusCode)
}
