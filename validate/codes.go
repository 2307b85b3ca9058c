package validate

// Stable issue codes. Codes are part of the tool contract: authoring
// integrations key remediation hints off them, so they never change
// meaning once shipped.
const (
	CodeUnsupportedLayerType   = "UNSUPPORTED_LAYER_TYPE"
	CodeUnsupportedShapeType   = "UNSUPPORTED_SHAPE_TYPE"
	CodeUnsupportedMaskMode    = "UNSUPPORTED_MASK_MODE"
	CodeUnsupportedMatteMode   = "UNSUPPORTED_MATTE_MODE"
	CodeLayer3D                = "LAYER_3D"
	CodeLayerAutoOrient        = "LAYER_AUTO_ORIENT"
	CodeLayerTimeStretch       = "LAYER_TIME_STRETCH"
	CodeLayerCollapse          = "LAYER_COLLAPSED_TRANSFORM"
	CodeLayerBlendMode         = "LAYER_BLEND_MODE"
	CodeTransformSkew          = "TRANSFORM_SKEW"
	CodeAnimatedPathTopology   = "ANIMATED_PATH_TOPOLOGY"
	CodeAnimatedMaskExpansion  = "ANIMATED_MASK_EXPANSION"
	CodeNonUniformGroupScale   = "NON_UNIFORM_GROUP_SCALE"
	CodeDashedStroke           = "DASHED_STROKE"
	CodeAnimatedRectRoundness  = "ANIMATED_RECT_ROUNDNESS"
	CodeStarPointsOutOfRange   = "STAR_POINTS_OUT_OF_RANGE"
	CodeFrameRateMismatch      = "FRAME_RATE_MISMATCH"
	CodeCanvasSizeMismatch     = "CANVAS_SIZE_MISMATCH"
	CodeAssetNotFound          = "ASSET_NOT_FOUND"
	CodeAssetRefEmpty          = "ASSET_REF_EMPTY"
	CodeBindingLayerNotFound   = "BINDING_LAYER_NOT_FOUND"
	CodeBindingLayerDuplicate  = "BINDING_LAYER_DUPLICATE"
	CodeBindingLayerWrongType  = "BINDING_LAYER_WRONG_TYPE"
	CodeMatteTargetSelf        = "MATTE_TARGET_SELF"
)
