package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/assetd-io/assetd/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func (suite *HandlerTestSuite) createAsset(add models.AddAsset) (models.Asset, *http.Response) {
	require := suite.Require()
	reqBody, err := json.Marshal(add)
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost,
		"/", "/",
		suite.api.CreateAsset, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)

	var asset models.Asset
	if res.Code == http.StatusCreated {
		require.NoError(json.Unmarshal(body, &asset))
	}
	return asset, res.Result()
}

func (suite *HandlerTestSuite) TestCreateGetAsset() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-1001"),
		Barcode:      ptr("bc-1001"),
		OrderNumber:  "zam-77",
		Price:        1200.50,
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	assert.Equal(models.StatusNew, asset.Status)
	assert.Nil(asset.DeviceInfo)

	_, getRes, err := suite.ServeRequest(
		http.MethodGet,
		"/:id", "/"+asset.ID.String(),
		suite.api.GetAsset, nil,
	)
	require.NoError(err)
	body, err := io.ReadAll(getRes.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, getRes.Code, "HTTP error: %s", string(body))

	var fetched models.Asset
	require.NoError(json.Unmarshal(body, &fetched))
	assert.Equal(asset.ID, fetched.ID)
	assert.Equal("sn-1001", *fetched.SerialNumber)
}

func (suite *HandlerTestSuite) TestCreateAssetValidation() {
	assert := suite.Assert()

	_, res := suite.createAsset(models.AddAsset{
		Kind:        "laptop",
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
	})
	assert.Equal(http.StatusBadRequest, res.StatusCode)

	_, res = suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindBackOffice,
		WarehouseID: suite.testWarehouse.ID,
	})
	assert.Equal(http.StatusBadRequest, res.StatusCode)

	_, res = suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindBackOffice,
		ModelID:     uuid.New(),
		WarehouseID: suite.testWarehouse.ID,
	})
	assert.Equal(http.StatusNotFound, res.StatusCode)

	// placement on a back-office asset is rejected
	_, res = suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindBackOffice,
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 1},
	})
	assert.Equal(http.StatusBadRequest, res.StatusCode)
}

func (suite *HandlerTestSuite) TestCreateDataCenterAssetCreatesPlaceholder() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-2001"),
		OrderNumber: "zam-11",
		Service:     "www",
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo: &models.AddDeviceInfo{
			RackID:      &suite.testRack.ID,
			Position:    10,
			Orientation: models.OrientationFront,
		},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo)
	require.NotNil(asset.DeviceInfo.DeviceID)

	var device models.Device
	require.NoError(suite.api.db.First(&device, "id = ?", *asset.DeviceInfo.DeviceID).Error)
	assert.Equal(suite.testModel.Name, device.Name)
	assert.Equal(suite.testWarehouse.Name, device.DataCenter)
	assert.Equal("zam-11", device.Remarks)
	assert.Equal("bc-2001", *device.Barcode)
	assert.Equal("www", device.Service)
}

func (suite *HandlerTestSuite) TestCreateAssetLinksDeviceByBarcode() {
	assert := suite.Assert()
	require := suite.Require()

	existing := models.Device{Name: "srv-7", Barcode: ptr("bc-3001")}
	require.NoError(suite.api.db.Create(&existing).Error)

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-3001"),
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 3},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo)
	require.NotNil(asset.DeviceInfo.DeviceID)
	assert.Equal(existing.ID, *asset.DeviceInfo.DeviceID)

	// no placeholder was created
	var count int64
	require.NoError(suite.api.db.Model(&models.Device{}).Count(&count).Error)
	assert.Equal(int64(1), count)
}

func (suite *HandlerTestSuite) TestForceUnlinkStealsDevice() {
	assert := suite.Assert()
	require := suite.Require()

	device := models.Device{Name: "srv-9", Barcode: ptr("bc-4001")}
	require.NoError(suite.api.db.Create(&device).Error)

	first, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-4001"),
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 1},
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	// a second asset naming the same device explicitly conflicts
	_, res = suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-4002"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		DeviceInfo:   &models.AddDeviceInfo{Position: 2},
		Linkage:      &models.LinkRequest{DeviceID: &device.ID},
	})
	assert.Equal(http.StatusConflict, res.StatusCode)

	// with force_unlink the device is stolen and the first asset unlinked
	second, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-4003"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		DeviceInfo:   &models.AddDeviceInfo{Position: 2},
		Linkage:      &models.LinkRequest{DeviceID: &device.ID, ForceUnlink: true},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(second.DeviceInfo.DeviceID)
	assert.Equal(device.ID, *second.DeviceInfo.DeviceID)

	var firstInfo models.DeviceInfo
	require.NoError(suite.api.db.First(&firstInfo, "asset_id = ?", first.ID).Error)
	assert.Nil(firstInfo.DeviceID)
}

func (suite *HandlerTestSuite) TestLinkUnknownDeviceRejected() {
	assert := suite.Assert()
	require := suite.Require()

	// an explicit device id naming no device is a not-found, not a server error
	_, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-4101"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		DeviceInfo:   &models.AddDeviceInfo{Position: 1},
		Linkage:      &models.LinkRequest{DeviceID: ptr(uuid.New())},
	})
	assert.Equal(http.StatusNotFound, res.StatusCode)

	// a soft-deleted device is not a linkable target either
	dead := models.Device{Name: "srv-dead", Deleted: true}
	require.NoError(suite.api.db.Create(&dead).Error)

	_, res = suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindDataCenter,
		SerialNumber: ptr("sn-4102"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		DeviceInfo:   &models.AddDeviceInfo{Position: 1},
		Linkage:      &models.LinkRequest{DeviceID: &dead.ID},
	})
	assert.Equal(http.StatusNotFound, res.StatusCode)
}

func (suite *HandlerTestSuite) TestAssetSupportAssignment() {
	assert := suite.Assert()
	require := suite.Require()

	gold := models.Support{Name: "gold", ContractID: "ct-1"}
	require.NoError(suite.api.db.Create(&gold).Error)
	silver := models.Support{Name: "silver", ContractID: "ct-2"}
	require.NoError(suite.api.db.Create(&silver).Error)

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-sup-1"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		SupportIDs:   []uuid.UUID{gold.ID, silver.ID},
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	var fetched models.Asset
	require.NoError(suite.api.db.Preload("Supports").First(&fetched, "id = ?", asset.ID).Error)
	require.Len(fetched.Supports, 2)

	// an update replaces the set
	update, err := json.Marshal(models.UpdateAsset{
		SupportIDs: ptr([]uuid.UUID{silver.ID}),
	})
	require.NoError(err)
	_, patchRes, err := suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+asset.ID.String(),
		suite.api.UpdateAsset, bytes.NewBuffer(update),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code)

	require.NoError(suite.api.db.Preload("Supports").First(&fetched, "id = ?", asset.ID).Error)
	require.Len(fetched.Supports, 1)
	assert.Equal("silver", fetched.Supports[0].Name)

	// an empty set clears the association
	update, err = json.Marshal(models.UpdateAsset{
		SupportIDs: ptr([]uuid.UUID{}),
	})
	require.NoError(err)
	_, patchRes, err = suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+asset.ID.String(),
		suite.api.UpdateAsset, bytes.NewBuffer(update),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code)

	require.NoError(suite.api.db.Preload("Supports").First(&fetched, "id = ?", asset.ID).Error)
	assert.Len(fetched.Supports, 0)

	// unknown support ids are a not-found
	_, res = suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-sup-2"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
		SupportIDs:   []uuid.UUID{uuid.New()},
	})
	assert.Equal(http.StatusNotFound, res.StatusCode)
}

func (suite *HandlerTestSuite) TestHostnameAssignedOnInProgress() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-5001"),
		OwnerCountry: "pl",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	assert.Nil(asset.Hostname)

	update, err := json.Marshal(models.UpdateAsset{Status: ptr(models.StatusInProgress)})
	require.NoError(err)
	_, patchRes, err := suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+asset.ID.String(),
		suite.api.UpdateAsset, bytes.NewBuffer(update),
	)
	require.NoError(err)
	body, err := io.ReadAll(patchRes.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code, "HTTP error: %s", string(body))

	var updated models.Asset
	require.NoError(json.Unmarshal(body, &updated))
	require.NotNil(updated.Hostname)
	assert.Equal("POLSV00001", *updated.Hostname)

	// counters advance per (prefix, postfix) pair independently
	second, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		Status:       models.StatusInProgress,
		SerialNumber: ptr("sn-5002"),
		OwnerCountry: "cz",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(second.Hostname)
	assert.Equal("CZESV00001", *second.Hostname)

	third, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		Status:       models.StatusInProgress,
		SerialNumber: ptr("sn-5003"),
		OwnerCountry: "pl",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(third.Hostname)
	assert.Equal("POLSV00002", *third.Hostname)
}

func (suite *HandlerTestSuite) TestHostnameSkippedWhenFlagDisabled() {
	assert := suite.Assert()
	require := suite.Require()
	suite.T().Setenv("ASSETD_FFLAG_AUTO_HOSTNAME", "false")

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		Status:       models.StatusInProgress,
		SerialNumber: ptr("sn-6001"),
		OwnerCountry: "pl",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	assert.Nil(asset.Hostname)
}

func (suite *HandlerTestSuite) TestHostnameUnknownCountryRejected() {
	assert := suite.Assert()

	_, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		Status:       models.StatusInProgress,
		SerialNumber: ptr("sn-7001"),
		OwnerCountry: "xx",
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	assert.Equal(http.StatusBadRequest, res.StatusCode)
}

func (suite *HandlerTestSuite) TestCreateAssetDuplicateSerial() {
	assert := suite.Assert()
	require := suite.Require()

	_, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-8001"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	_, res = suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-8001"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	assert.Equal(http.StatusConflict, res.StatusCode)
}

func (suite *HandlerTestSuite) TestDeleteAssetWithPartsRefused() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:         models.AssetKindBackOffice,
		SerialNumber: ptr("sn-9001"),
		ModelID:      suite.testModel.ID,
		WarehouseID:  suite.testWarehouse.ID,
	})
	require.Equal(http.StatusCreated, res.StatusCode)

	part := models.Part{
		SerialNumber: "part-9001",
		AssetID:      &asset.ID,
		WarehouseID:  suite.testWarehouse.ID,
	}
	require.NoError(suite.api.db.Create(&part).Error)

	_, delRes, err := suite.ServeRequest(
		http.MethodDelete,
		"/:id", "/"+asset.ID.String(),
		suite.api.DeleteAsset, nil,
	)
	require.NoError(err)
	assert.Equal(http.StatusConflict, delRes.Code)

	require.NoError(suite.api.db.Model(&models.Part{}).
		Where("id = ?", part.ID).Update("asset_id", nil).Error)

	_, delRes, err = suite.ServeRequest(
		http.MethodDelete,
		"/:id", "/"+asset.ID.String(),
		suite.api.DeleteAsset, nil,
	)
	require.NoError(err)
	assert.Equal(http.StatusOK, delRes.Code)
}

func (suite *HandlerTestSuite) TestListAssets() {
	assert := suite.Assert()
	require := suite.Require()

	for _, sn := range []string{"sn-a", "sn-b", "sn-c"} {
		_, res := suite.createAsset(models.AddAsset{
			Kind:         models.AssetKindBackOffice,
			SerialNumber: ptr(sn),
			ModelID:      suite.testModel.ID,
			WarehouseID:  suite.testWarehouse.ID,
		})
		require.Equal(http.StatusCreated, res.StatusCode)
	}

	_, res, err := suite.ServeRequest(
		http.MethodGet,
		"/", `/?sort=["sn","DESC"]`,
		suite.api.ListAssets, nil,
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code, "HTTP error: %s", string(body))

	var actual []models.Asset
	require.NoError(json.Unmarshal(body, &actual))
	require.Len(actual, 3)
	assert.Equal("sn-c", *actual[0].SerialNumber)

	_, res, err = suite.ServeRequest(
		http.MethodGet,
		"/", `/?range=[0,1]`,
		suite.api.ListAssets, nil,
	)
	require.NoError(err)
	body, err = io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code, "HTTP error: %s", string(body))
	require.NoError(json.Unmarshal(body, &actual))
	assert.Len(actual, 2)
	assert.Equal("3", res.Header().Get(TotalCountHeader))
}

func (suite *HandlerTestSuite) TestUpdateAssetSyncsLinkedDevice() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-sync-1"),
		Service:     "www",
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 5},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo.DeviceID)

	update, err := json.Marshal(models.UpdateAsset{
		Service:           ptr("backup"),
		DeviceEnvironment: ptr("prod"),
	})
	require.NoError(err)
	_, patchRes, err := suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+asset.ID.String(),
		suite.api.UpdateAsset, bytes.NewBuffer(update),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code)

	var device models.Device
	require.NoError(suite.api.db.First(&device, "id = ?", *asset.DeviceInfo.DeviceID).Error)
	assert.Equal("backup", device.Service)
	assert.Equal("prod", device.DeviceEnvironment)
}
