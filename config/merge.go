package config

// mergeConfigs layers override on top of base. Scalars are replaced when the
// override sets them, maps are merged key by key.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	result.Project = mergeProject(result.Project, override.Project)
	result.Build = mergeBuild(result.Build, override.Build)

	if override.Test.Destination != "" {
		result.Test.Destination = override.Test.Destination
	}
	if override.Test.WithoutBuilding {
		result.Test.WithoutBuilding = true
	}
	if override.Xcode.Version != "" {
		result.Xcode.Version = override.Xcode.Version
	}
	if override.CocoaPods.Enabled {
		result.CocoaPods.Enabled = true
	}
	if override.CocoaPods.RepoUpdate {
		result.CocoaPods.RepoUpdate = true
	}
	if override.AppStoreConnect != nil {
		result.AppStoreConnect = override.AppStoreConnect
	}
	if override.Export != nil {
		result.Export = mergeExport(result.Export, override.Export)
	}

	if override.Pipelines != nil {
		pipelines := make(map[string]Pipeline, len(result.Pipelines)+len(override.Pipelines))
		for name, p := range result.Pipelines {
			pipelines[name] = p
		}
		for name, p := range override.Pipelines {
			pipelines[name] = p
		}
		result.Pipelines = pipelines
	}

	// Merge extensions
	if override.Extensions != nil {
		extensions := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for key, value := range result.Extensions {
			extensions[key] = value
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseMap, ok := extensions[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					merged := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						merged[k] = v
					}
					for k, v := range overrideMap {
						merged[k] = v
					}
					extensions[key] = merged
					continue
				}
			}
			extensions[key] = value
		}
		result.Extensions = extensions
	}

	return &result
}

func mergeProject(base, override ProjectConfig) ProjectConfig {
	result := base
	if override.WorkingDirectory != "" {
		result.WorkingDirectory = override.WorkingDirectory
	}
	// project and workspace are alternatives; setting one replaces both.
	if override.Project != "" || override.Workspace != "" {
		result.Project = override.Project
		result.Workspace = override.Workspace
	}
	if override.Scheme != "" {
		result.Scheme = override.Scheme
	}
	return result
}

func mergeBuild(base, override BuildConfig) BuildConfig {
	result := base
	if override.Configuration != "" {
		result.Configuration = override.Configuration
	}
	if override.SDK != "" {
		result.SDK = override.SDK
	}
	if override.Formatter != "" {
		result.Formatter = override.Formatter
	}
	if override.DerivedDataPath != "" {
		result.DerivedDataPath = override.DerivedDataPath
	}
	if override.Clean {
		result.Clean = true
	}
	return result
}

func mergeExport(base, override *ExportConfig) *ExportConfig {
	if base == nil {
		return override
	}
	result := *base
	if override.Method != "" {
		result.Method = override.Method
	}
	if override.SigningStyle != "" {
		result.SigningStyle = override.SigningStyle
	}
	if override.TeamID != "" {
		result.TeamID = override.TeamID
	}
	if override.Destination != "" {
		result.Destination = override.Destination
	}
	if len(override.ProvisioningProfiles) > 0 {
		result.ProvisioningProfiles = override.ProvisioningProfiles
	}
	return &result
}
