package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/assetd-io/assetd/internal/models"
)

func (suite *HandlerTestSuite) TestGetRalphAssetByDevice() {
	assert := suite.Assert()
	require := suite.Require()

	support := models.Support{Name: "care pack", URL: "https://support.example.com"}
	require.NoError(suite.api.db.Create(&support).Error)

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-ralph-1"),
		Barcode:      ptr("bc-ralph-1"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		SupportIDs:   []uuid.UUID{support.ID},
		DeviceInfo: &models.AddDeviceInfo{
			RackID:   &suite.testRack.ID,
			Position: 7,
			UHeight:  2,
		},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo.DeviceID)

	_, getRes, err := suite.ServeRequest(
		http.MethodGet,
		"/", "/?device_id="+asset.DeviceInfo.DeviceID.String(),
		suite.api.GetRalphAsset, nil,
	)
	require.NoError(err)
	body, err := io.ReadAll(getRes.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, getRes.Code, "HTTP error: %s", string(body))

	var details models.AssetDetails
	require.NoError(json.Unmarshal(body, &details))
	assert.Equal(asset.ID, details.AssetID)
	assert.Equal("PowerEdge R640", details.Model)
	assert.Equal("Dell", details.Manufacturer)
	assert.Equal("rack server", details.Category)
	assert.Equal("warsaw-dc2", details.Warehouse)
	assert.Equal("rack-101", details.Rack)
	assert.Equal(7, details.Position)
	require.Len(details.Supports, 1)
	assert.Equal("care pack", details.Supports[0].Name)
}

func (suite *HandlerTestSuite) TestGetRalphAssetByIdentity() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-ralph-2"),
		Barcode:      ptr("bc-ralph-2"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	for _, identity := range []string{"sn-ralph-2", "bc-ralph-2"} {
		_, getRes, err := suite.ServeRequest(
			http.MethodGet,
			"/", "/?identity="+identity,
			suite.api.GetRalphAsset, nil,
		)
		require.NoError(err)
		body, err := io.ReadAll(getRes.Body)
		require.NoError(err)
		require.Equal(http.StatusOK, getRes.Code, "HTTP error: %s", string(body))

		var details models.AssetDetails
		require.NoError(json.Unmarshal(body, &details))
		assert.Equal(asset.ID, details.AssetID)
	}

	_, getRes, err := suite.ServeRequest(
		http.MethodGet,
		"/", "/?identity=no-such-thing",
		suite.api.GetRalphAsset, nil,
	)
	require.NoError(err)
	assert.Equal(http.StatusNotFound, getRes.Code)

	// both or neither parameter is a bad request
	_, getRes, err = suite.ServeRequest(
		http.MethodGet,
		"/", "/",
		suite.api.GetRalphAsset, nil,
	)
	require.NoError(err)
	assert.Equal(http.StatusBadRequest, getRes.Code)
}

func (suite *HandlerTestSuite) TestGetRalphAssetAssigned() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-ralph-3"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		DeviceInfo:   &models.AddDeviceInfo{Position: 2},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo.DeviceID)
	deviceID := *asset.DeviceInfo.DeviceID

	check := func(uri string) models.AssignedResult {
		_, getRes, err := suite.ServeRequest(
			http.MethodGet,
			"/:id/assigned", uri,
			suite.api.GetRalphAssetAssigned, nil,
		)
		require.NoError(err)
		body, err := io.ReadAll(getRes.Body)
		require.NoError(err)
		require.Equal(http.StatusOK, getRes.Code, "HTTP error: %s", string(body))
		var result models.AssignedResult
		require.NoError(json.Unmarshal(body, &result))
		return result
	}

	assert.True(check("/" + asset.ID.String() + "/assigned").Assigned)
	// a link to the excluded device does not count
	assert.False(check("/" + asset.ID.String() + "/assigned?exclude=" + deviceID.String()).Assigned)
	// excluding some other device leaves the link counted
	assert.True(check("/" + asset.ID.String() + "/assigned?exclude=" + uuid.NewString()).Assigned)
}

func (suite *HandlerTestSuite) assignAsset(req models.AssignAsset) (*models.AssignResult, *http.Response) {
	require := suite.Require()
	reqBody, err := json.Marshal(req)
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost,
		"/", "/",
		suite.api.AssignRalphAsset, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)

	var outcome models.AssignResult
	if res.Code == http.StatusOK {
		require.NoError(json.Unmarshal(body, &outcome))
	}
	return &outcome, res.Result()
}

func (suite *HandlerTestSuite) TestAssignRalphAsset() {
	assert := suite.Assert()
	require := suite.Require()

	device := models.Device{Name: "srv-assign"}
	require.NoError(suite.api.db.Create(&device).Error)

	first, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-assign-1"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	second, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-assign-2"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	// first link: nothing held the device before
	outcome, httpRes := suite.assignAsset(models.AssignAsset{
		DeviceID: device.ID,
		AssetID:  &first.ID,
	})
	require.Equal(http.StatusOK, httpRes.StatusCode)
	assert.Equal(models.AssignLinked, outcome.Outcome)

	// second link steals it, which the outcome distinguishes
	outcome, httpRes = suite.assignAsset(models.AssignAsset{
		DeviceID: device.ID,
		AssetID:  &second.ID,
	})
	require.Equal(http.StatusOK, httpRes.StatusCode)
	assert.Equal(models.AssignRelinked, outcome.Outcome)

	var firstInfo models.DeviceInfo
	require.NoError(suite.api.db.First(&firstInfo, "asset_id = ?", first.ID).Error)
	assert.Nil(firstInfo.DeviceID)

	// no asset frees the device
	outcome, httpRes = suite.assignAsset(models.AssignAsset{DeviceID: device.ID})
	require.Equal(http.StatusOK, httpRes.StatusCode)
	assert.Equal(models.AssignUnassigned, outcome.Outcome)

	var secondInfo models.DeviceInfo
	require.NoError(suite.api.db.First(&secondInfo, "asset_id = ?", second.ID).Error)
	assert.Nil(secondInfo.DeviceID)
}

func (suite *HandlerTestSuite) TestAssignRalphAssetMissing() {
	assert := suite.Assert()
	require := suite.Require()

	device := models.Device{Name: "srv-assign-404"}
	require.NoError(suite.api.db.Create(&device).Error)

	missing := uuid.New()
	_, httpRes := suite.assignAsset(models.AssignAsset{
		DeviceID: device.ID,
		AssetID:  &missing,
	})
	assert.Equal(http.StatusNotFound, httpRes.StatusCode)

	_, httpRes = suite.assignAsset(models.AssignAsset{DeviceID: uuid.New()})
	assert.Equal(http.StatusNotFound, httpRes.StatusCode)

	// a soft-deleted device is not assignable
	dead := models.Device{Name: "srv-assign-dead", Deleted: true}
	require.NoError(suite.api.db.Create(&dead).Error)
	_, httpRes = suite.assignAsset(models.AssignAsset{DeviceID: dead.ID})
	assert.Equal(http.StatusNotFound, httpRes.StatusCode)
}
