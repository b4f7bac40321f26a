package scaffolding

// FileTemplate is one file of a project skeleton, rendered with
// text/template against a TemplateContext.
type FileTemplate struct {
	// Path is slash-separated and relative to the platform directory.
	Path    string
	Content string
}

// TemplateContext holds the values skeleton templates are rendered with.
type TemplateContext struct {
	AppName     string
	PackageName string
	// PackagePath is PackageName as a source directory, e.g. "com/example/app".
	PackagePath string
	BundleID    string
	// ThemeName is AppName as a resource identifier, e.g. "MyApp".
	ThemeName string
	// Autolink blocks carry the marker-delimited generated sections so a
	// fresh project already has the markers the linker looks for.
	SettingsBlock     string
	DependenciesBlock string
	PodsBlock         string
}

func androidTemplates() []FileTemplate {
	return []FileTemplate{
		{Path: "settings.gradle.kts", Content: androidSettingsTemplate},
		{Path: "build.gradle.kts", Content: androidRootBuildTemplate},
		{Path: "gradle.properties", Content: androidGradlePropertiesTemplate},
		{Path: "app/build.gradle.kts", Content: androidAppBuildTemplate},
		{Path: "app/src/main/res/values/themes.xml", Content: androidThemesTemplate},
		{Path: "app/src/main/AndroidManifest.xml", Content: androidManifestTemplate},
		{Path: "app/src/main/kotlin/{{.PackagePath}}/MainApplication.kt", Content: androidApplicationTemplate},
		{Path: "app/src/main/kotlin/{{.PackagePath}}/TemplateProvider.kt", Content: androidTemplateProviderTemplate},
		{Path: "app/src/main/kotlin/{{.PackagePath}}/MainActivity.kt", Content: androidMainActivityTemplate},
		{Path: "app/src/main/assets/.gitkeep", Content: ""},
	}
}

func iosTemplates() []FileTemplate {
	return []FileTemplate{
		{Path: "Podfile", Content: iosPodfileTemplate},
		{Path: "{{.AppName}}/AppDelegate.swift", Content: iosAppDelegateTemplate},
		{Path: "{{.AppName}}/TemplateProvider.swift", Content: iosTemplateProviderTemplate},
		{Path: "{{.AppName}}/Info.plist", Content: iosInfoPlistTemplate},
	}
}

const androidSettingsTemplate = `pluginManagement {
    repositories {
        google {
            content {
                includeGroupByRegex("com\\.android.*")
                includeGroupByRegex("com\\.google.*")
                includeGroupByRegex("androidx.*")
            }
        }
        mavenCentral()
        gradlePluginPortal()
    }
}
dependencyResolutionManagement {
    repositoriesMode.set(RepositoriesMode.FAIL_ON_PROJECT_REPOS)
    repositories {
        google()
        mavenCentral()
    }
}

rootProject.name = "{{.AppName}}"
include(":app")

{{.SettingsBlock}}
`

const androidRootBuildTemplate = `// Top-level build file where you can add configuration options common to all sub-projects/modules.
plugins {
    alias(libs.plugins.android.application) apply false
    alias(libs.plugins.kotlin.android) apply false
}
`

const androidGradlePropertiesTemplate = `org.gradle.jvmargs=-Xmx2048m
android.useAndroidX=true
kotlin.code.style=official
android.enableJetifier=true
`

const androidAppBuildTemplate = `plugins {
    alias(libs.plugins.android.application)
    alias(libs.plugins.kotlin.android)
    id("org.jetbrains.kotlin.kapt")
}

android {
    namespace = "{{.PackageName}}"
    compileSdk = 35

    defaultConfig {
        applicationId = "{{.PackageName}}"
        minSdk = 28
        targetSdk = 35
        versionCode = 1
        versionName = "1.0"
        testInstrumentationRunner = "androidx.test.runner.AndroidJUnitRunner"
        ndk {
            abiFilters += listOf("armeabi-v7a", "arm64-v8a")
        }
    }

    buildTypes {
        release {
            isMinifyEnabled = false
            proguardFiles(
                getDefaultProguardFile("proguard-android-optimize.txt"),
                "proguard-rules.pro"
            )
        }
    }

    compileOptions {
        sourceCompatibility = JavaVersion.VERSION_17
        targetCompatibility = JavaVersion.VERSION_17
    }

    kotlinOptions {
        jvmTarget = "17"
    }

    sourceSets {
        getByName("main") {
            jniLibs.srcDirs("src/main/jniLibs")
        }
    }
}

dependencies {
    implementation(libs.androidx.core.ktx)
    implementation(libs.androidx.appcompat)
    implementation(libs.material)
    implementation(libs.androidx.activity)
    implementation(libs.androidx.constraintlayout)
    testImplementation(libs.junit)
    androidTestImplementation(libs.androidx.junit)
    androidTestImplementation(libs.androidx.espresso.core)
    implementation(libs.lynx)
    implementation(libs.lynx.jssdk)
    implementation(libs.lynx.trace)
    implementation(libs.primjs)
    implementation(libs.lynx.service.image)
    implementation(libs.fresco)
    implementation(libs.animated.gif)
    implementation(libs.animated.webp)
    implementation(libs.webpsupport)
    implementation(libs.animated.base)
    implementation(libs.lynx.service.log)
    implementation(libs.lynx.service.http)
    implementation(libs.okhttp)
    kapt(libs.lynx.processor)
    implementation(libs.commons.lang3)
    implementation(libs.commons.compress)

    {{.DependenciesBlock}}
}
`

const androidThemesTemplate = `<resources>
    <style name="Theme.{{.ThemeName}}" parent="Theme.AppCompat.Light.NoActionBar">
        <item name="android:statusBarColor">@android:color/transparent</item>
        <item name="android:windowLightStatusBar">false</item>
        <item name="android:navigationBarColor">@android:color/transparent</item>
    </style>
</resources>
`

const androidManifestTemplate = `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-permission android:name="android.permission.INTERNET" />
    <application
        android:name=".MainApplication"
        android:label="{{.AppName}}"
        android:usesCleartextTraffic="true"
        android:theme="@style/Theme.{{.ThemeName}}">
        <activity android:name=".MainActivity" android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`

const androidApplicationTemplate = `package {{.PackageName}}

import android.app.Application
import com.facebook.drawee.backends.pipeline.Fresco
import com.facebook.imagepipeline.core.ImagePipelineConfig
import com.facebook.imagepipeline.memory.PoolConfig
import com.facebook.imagepipeline.memory.PoolFactory
import com.lynx.service.http.LynxHttpService
import com.lynx.service.image.LynxImageService
import com.lynx.service.log.LynxLogService
import com.lynx.tasm.LynxEnv
import com.lynx.tasm.service.LynxServiceCenter
import {{.PackageName}}.generated.GeneratedLynxExtensions

class MainApplication : Application() {
    override fun onCreate() {
        super.onCreate()
        initLynxService()
        initLynxEnv()
    }

    private fun initLynxService() {
        val factory = PoolFactory(PoolConfig.newBuilder().build())
        val builder = ImagePipelineConfig.newBuilder(applicationContext).setPoolFactory(factory)
        Fresco.initialize(applicationContext, builder.build())

        LynxServiceCenter.inst().registerService(LynxImageService.getInstance())
        LynxServiceCenter.inst().registerService(LynxLogService)
        LynxServiceCenter.inst().registerService(LynxHttpService)
    }

    private fun initLynxEnv() {
        // Autolinked modules must be registered before LynxEnv starts.
        GeneratedLynxExtensions.register(this)

        LynxEnv.inst().init(this, null, TemplateProvider(this), null)
    }
}
`

const androidTemplateProviderTemplate = `package {{.PackageName}}

import android.content.Context
import com.lynx.tasm.provider.AbsTemplateProvider
import java.io.IOException

class TemplateProvider(context: Context) : AbsTemplateProvider() {
    private val appContext: Context = context.applicationContext

    override fun loadTemplate(uri: String, callback: Callback) {
        Thread {
            try {
                appContext.assets.open(uri).use { input ->
                    callback.onSuccess(input.readBytes())
                }
            } catch (e: IOException) {
                callback.onFailed(e.message)
            }
        }.start()
    }
}
`

const androidMainActivityTemplate = `package {{.PackageName}}

import android.os.Bundle
import androidx.appcompat.app.AppCompatActivity
import androidx.core.view.ViewCompat
import androidx.core.view.WindowCompat
import androidx.core.view.WindowInsetsCompat
import androidx.core.view.updatePadding
import com.lynx.tasm.LynxView
import com.lynx.tasm.LynxViewBuilder

class MainActivity : AppCompatActivity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
        WindowCompat.setDecorFitsSystemWindows(window, false)
        val lynxView = buildLynxView()
        setContentView(lynxView)
        ViewCompat.setOnApplyWindowInsetsListener(lynxView) { view, insets ->
            val imeVisible = insets.isVisible(WindowInsetsCompat.Type.ime())
            val imeHeight = insets.getInsets(WindowInsetsCompat.Type.ime()).bottom
            view.updatePadding(bottom = if (imeVisible) imeHeight else 0)
            insets
        }
        lynxView.renderTemplateUrl("main.lynx.bundle", "")
    }

    private fun buildLynxView(): LynxView {
        val viewBuilder = LynxViewBuilder()
        viewBuilder.setTemplateProvider(TemplateProvider(this))
        return viewBuilder.build(this)
    }
}
`

const iosPodfileTemplate = `platform :ios, '13.0'
use_frameworks!

target '{{.AppName}}' do
  pod 'Lynx', '3.3.1', :subspecs => ['Framework']
  pod 'PrimJS', '2.12.0', :subspecs => ['quickjs', 'napi']
  pod 'LynxService', '3.3.1', :subspecs => ['Image', 'Log', 'Http']
  pod 'SDWebImage', '5.15.5'
  pod 'SDWebImageWebPCoder', '0.11.0'

{{.PodsBlock}}
end
`

const iosAppDelegateTemplate = `import UIKit
import Lynx

@main
class AppDelegate: UIResponder, UIApplicationDelegate {
    var window: UIWindow?

    func application(
        _ application: UIApplication,
        didFinishLaunchingWithOptions launchOptions: [UIApplication.LaunchOptionsKey: Any]?
    ) -> Bool {
        let config = LynxConfig(provider: TemplateProvider())
        // Autolinked modules must be registered before the environment is prepared.
        GeneratedLynxExtensions.register(config)
        LynxEnv.sharedInstance().prepareConfig(config)

        let controller = UIViewController()
        let lynxView = LynxView { builder in
            builder.config = config
            builder.screenSize = UIScreen.main.bounds.size
            builder.fontScale = 1.0
        }
        lynxView.preferredLayoutWidth = UIScreen.main.bounds.width
        lynxView.preferredLayoutHeight = UIScreen.main.bounds.height
        lynxView.layoutWidthMode = .exact
        lynxView.layoutHeightMode = .exact
        controller.view.addSubview(lynxView)
        lynxView.loadTemplate(fromURL: "main.lynx.bundle", initData: nil)

        window = UIWindow(frame: UIScreen.main.bounds)
        window?.rootViewController = controller
        window?.makeKeyAndVisible()
        return true
    }
}
`

const iosTemplateProviderTemplate = `import Foundation
import Lynx

class TemplateProvider: NSObject, LynxTemplateProvider {
    func loadTemplate(withUrl url: String!, onComplete callback: LynxTemplateLoadBlock!) {
        guard let path = Bundle.main.path(forResource: url, ofType: nil) else {
            callback(nil, NSError(domain: "{{.BundleID}}", code: 404))
            return
        }
        do {
            let data = try Data(contentsOf: URL(fileURLWithPath: path))
            callback(data, nil)
        } catch {
            callback(nil, error)
        }
    }
}
`

const iosInfoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleDisplayName</key>
    <string>{{.AppName}}</string>
    <key>CFBundleIdentifier</key>
    <string>{{.BundleID}}</string>
    <key>CFBundleExecutable</key>
    <string>$(EXECUTABLE_NAME)</string>
    <key>CFBundlePackageType</key>
    <string>APPL</string>
    <key>CFBundleShortVersionString</key>
    <string>1.0</string>
    <key>CFBundleVersion</key>
    <string>1</string>
    <key>NSAppTransportSecurity</key>
    <dict>
        <key>NSAllowsArbitraryLoads</key>
        <true/>
    </dict>
    <key>UILaunchStoryboardName</key>
    <string></string>
</dict>
</plist>
`
