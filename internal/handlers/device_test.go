package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/assetd-io/assetd/internal/models"
)

func (suite *HandlerTestSuite) TestCreateGetDevice() {
	assert := suite.Assert()
	require := suite.Require()

	reqBody, err := json.Marshal(models.AddDevice{
		Name:       "srv-100",
		Barcode:    ptr("bc-dev-100"),
		DataCenter: "dc2",
	})
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost,
		"/", "/",
		suite.api.CreateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusCreated, res.Code, "HTTP error: %s", string(body))

	var device models.Device
	require.NoError(json.Unmarshal(body, &device))
	assert.Equal("srv-100", device.Name)

	_, getRes, err := suite.ServeRequest(
		http.MethodGet,
		"/:id", "/"+device.ID.String(),
		suite.api.GetDevice, nil,
	)
	require.NoError(err)
	assert.Equal(http.StatusOK, getRes.Code)
}

func (suite *HandlerTestSuite) TestCreateDeviceDuplicateBarcode() {
	assert := suite.Assert()
	require := suite.Require()

	add := models.AddDevice{Name: "srv-101", Barcode: ptr("bc-dev-101")}
	reqBody, err := json.Marshal(add)
	require.NoError(err)
	_, res, err := suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	require.Equal(http.StatusCreated, res.Code)

	reqBody, err = json.Marshal(add)
	require.NoError(err)
	_, res, err = suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	assert.Equal(http.StatusConflict, res.Code)
}

func (suite *HandlerTestSuite) TestUpdateDeviceSyncsLinkedAsset() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-dev-sync"),
		Service:     "www",
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 2},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo.DeviceID)
	deviceID := *asset.DeviceInfo.DeviceID

	update, err := json.Marshal(models.UpdateDevice{
		Service:           ptr("mail"),
		DeviceEnvironment: ptr("staging"),
	})
	require.NoError(err)
	_, patchRes, err := suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+deviceID.String(),
		suite.api.UpdateDevice, bytes.NewBuffer(update),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code)

	var synced models.Asset
	require.NoError(suite.api.db.First(&synced, "id = ?", asset.ID).Error)
	assert.Equal("mail", synced.Service)
	assert.Equal("staging", synced.DeviceEnvironment)
}

func (suite *HandlerTestSuite) TestSoftDeleteDeviceClearsLink() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-dev-soft"),
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 2},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	deviceID := *asset.DeviceInfo.DeviceID

	update, err := json.Marshal(models.UpdateDevice{Deleted: ptr(true)})
	require.NoError(err)
	_, patchRes, err := suite.ServeRequest(
		http.MethodPatch,
		"/:id", "/"+deviceID.String(),
		suite.api.UpdateDevice, bytes.NewBuffer(update),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, patchRes.Code)

	var info models.DeviceInfo
	require.NoError(suite.api.db.First(&info, "asset_id = ?", asset.ID).Error)
	assert.Nil(info.DeviceID)
}

func (suite *HandlerTestSuite) TestDeleteDeviceClearsLink() {
	assert := suite.Assert()
	require := suite.Require()

	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-dev-del"),
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 2},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	deviceID := *asset.DeviceInfo.DeviceID

	_, delRes, err := suite.ServeRequest(
		http.MethodDelete,
		"/:id", "/"+deviceID.String(),
		suite.api.DeleteDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusOK, delRes.Code)

	var info models.DeviceInfo
	require.NoError(suite.api.db.First(&info, "asset_id = ?", asset.ID).Error)
	assert.Nil(info.DeviceID)

	var count int64
	require.NoError(suite.api.db.Model(&models.Device{}).Count(&count).Error)
	assert.Equal(int64(0), count)
}

func (suite *HandlerTestSuite) TestSoftDeletedDeviceNotMatchedByBarcode() {
	assert := suite.Assert()
	require := suite.Require()

	dead := models.Device{Name: "srv-dead", Barcode: ptr("bc-dead"), Deleted: true}
	require.NoError(suite.api.db.Create(&dead).Error)

	// barcode matches only live devices, so a placeholder is created instead
	asset, res := suite.createAsset(models.AddAsset{
		Kind:        models.AssetKindDataCenter,
		Barcode:     ptr("bc-dead"),
		ModelID:     suite.testModel.ID,
		WarehouseID: suite.testWarehouse.ID,
		DeviceInfo:  &models.AddDeviceInfo{Position: 2},
	})
	require.Equal(http.StatusCreated, res.StatusCode)
	require.NotNil(asset.DeviceInfo.DeviceID)
	assert.NotEqual(dead.ID, *asset.DeviceInfo.DeviceID)
}
